package model

// ResumenFinanciero is the dashboard aggregate: totals, balance and movement
// count. Never persisted; recomputed on every fetch.
type ResumenFinanciero struct {
	TotalIngresos    float64
	TotalGastos      float64
	Balance          float64
	MovimientosCount int
}

// CategoriaResumen aggregates one category's movements. Porcentaje is this
// category's share of total expense, in 0..100.
type CategoriaResumen struct {
	Categoria        Categoria
	TotalGastos      float64
	TotalIngresos    float64
	Porcentaje       float64
	MovimientosCount int
}

// ResumenMensual is one slot of the 12-month series for a year.
type ResumenMensual struct {
	Mes           string
	Ano           int
	TotalIngresos float64
	TotalGastos   float64
	Balance       float64
}
