package entity

// Actor identifica quién ejecuta una mutación. Se copia por valor en los
// registros de ledger y auditoría.
type Actor struct {
	ID          string
	DisplayName string
	RoleLabel   string
}
