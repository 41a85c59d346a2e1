// Package dashboard aggregates cadastro, catalog and stock numbers for
// the three dashboard views. Results are cached in Redis with a short
// TTL; ?refresh=1 bypasses the cache.
package dashboard

import "time"

// EntityCount is one cadastro card.
type EntityCount struct {
	Total  int `json:"total"`
	Ativos int `json:"ativos"`
}

// ComprasResumo summarises the purchase order pipeline.
type ComprasResumo struct {
	PorStatus     map[string]int `json:"porStatus"`
	Requisicoes   map[string]int `json:"requisicoes"`
	ValorMesAtual float64        `json:"valorMesAtual"`
}

// Overview backs GET /dashboard.
type Overview struct {
	Cadastros    map[string]EntityCount `json:"cadastros"`
	SKUs         EntityCount            `json:"skus"`
	Usuarios     EntityCount            `json:"usuarios"`
	ValorEstoque float64                `json:"valorEstoque"`
	Compras      ComprasResumo          `json:"compras"`
	GeradoEm     time.Time              `json:"geradoEm"`
}

// Meta is one target tracked by the executive view. Targets live in
// configuration until the planning module ships its own table.
type Meta struct {
	Nome      string  `json:"nome"`
	Meta      float64 `json:"meta"`
	Realizado float64 `json:"realizado"`
}

// Executive backs GET /dashboard/executivo.
type Executive struct {
	Overview
	Metas []Meta `json:"metas"`
}

// PlanningRow is one família's stock position.
type PlanningRow struct {
	FamiliaID    int64   `json:"familiaId"`
	FamiliaNome  string  `json:"familiaNome"`
	TotalSKUs    int     `json:"totalSkus"`
	QtdEstoque   float64 `json:"qtdEstoque"`
	ValorEstoque float64 `json:"valorEstoque"`
	AbaixoMinimo int     `json:"abaixoMinimo"`
}

// Planning backs GET /dashboard/planejamento.
type Planning struct {
	Familias []PlanningRow `json:"familias"`
	GeradoEm time.Time     `json:"geradoEm"`
}
