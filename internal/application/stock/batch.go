package stock

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Almacen-api/internal/domain"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
)

// BatchItem una mutación dentro de un lote.
type BatchItem struct {
	ProductID string
	Action    string
	Quantity  decimal.Decimal
	Context   MutationContext
}

// BatchItemResult resultado de un ítem del lote, en la misma posición que su
// entrada. Success=false lleva ErrorMessage; Success=true lleva Result.
type BatchItemResult struct {
	ProductID    string
	Success      bool
	Result       *MutationResult
	ErrorMessage string
}

// BatchOrchestrator aplica varias mutaciones independientes en secuencia.
// Semántica best-effort: el fallo de un ítem no revierte los ya confirmados
// ni bloquea los siguientes. No toma un lock sobre el lote completo; cada
// ítem pasa por la misma unidad atómica del motor.
type BatchOrchestrator struct {
	engine *MutationEngine
}

// NewBatchOrchestrator construye el orquestador sobre el motor.
func NewBatchOrchestrator(engine *MutationEngine) *BatchOrchestrator {
	return &BatchOrchestrator{engine: engine}
}

// BatchMutate procesa los ítems estrictamente en orden. La lista de salida
// siempre tiene la misma longitud que la de entrada, posición a posición.
// Solo un error estructural (lote vacío) hace fallar la llamada completa.
func (o *BatchOrchestrator) BatchMutate(ctx context.Context, items []BatchItem, actor entity.Actor) ([]BatchItemResult, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	results := make([]BatchItemResult, 0, len(items))
	for _, item := range items {
		res, err := o.engine.Mutate(ctx, MutationInput{
			ProductID: item.ProductID,
			Action:    item.Action,
			Quantity:  item.Quantity,
			Actor:     actor,
			Context:   item.Context,
		})
		if err != nil {
			results = append(results, BatchItemResult{
				ProductID:    item.ProductID,
				ErrorMessage: err.Error(),
			})
			continue
		}
		results = append(results, BatchItemResult{
			ProductID: item.ProductID,
			Success:   true,
			Result:    res,
		})
	}
	return results, nil
}
