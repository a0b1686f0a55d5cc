package polymarket

import "encoding/json"

// DTOs raw de la API de Polymarket. Solo se usan dentro de este paquete.
// La conversión a domain entities se hace en mapping.go.

// --- Data API ---

// rawLeaderboardEntry es un trader del GET /leaderboard.
type rawLeaderboardEntry struct {
	ProxyWallet string      `json:"proxyWallet"`
	Amount      json.Number `json:"amount"`
	Name        string      `json:"name"`
}

// rawUserTrade es un trade del GET /trades?user=.
type rawUserTrade struct {
	ID              string      `json:"id"`
	ProxyWallet     string      `json:"proxyWallet"`
	ConditionID     string      `json:"conditionId"`
	Asset           string      `json:"asset"`
	Side            string      `json:"side"`
	Outcome         string      `json:"outcome"`
	Price           json.Number `json:"price"`
	Size            json.Number `json:"size"`
	UsdcSize        json.Number `json:"usdcSize"`
	Timestamp       json.Number `json:"timestamp"`
	TransactionHash string      `json:"transactionHash"`
}

// --- Gamma API ---

// gammaMarket es la metadata de un mercado en Gamma.
type gammaMarket struct {
	ConditionID   string      `json:"conditionId"`
	Question      string      `json:"question"`
	Volume24h     json.Number `json:"volume24hr"`
	Closed        bool        `json:"closed"`
	Outcomes      string      `json:"outcomes"`      // JSON array codificado como string
	OutcomePrices string      `json:"outcomePrices"` // ídem
	LastTradePrice json.Number `json:"lastTradePrice"`
}

// --- CLOB API ---

// priceHistoryResponse es la respuesta de GET /prices-history.
type priceHistoryResponse struct {
	History []pricePoint `json:"history"`
}

type pricePoint struct {
	Timestamp int64       `json:"t"` // unix seconds
	Price     json.Number `json:"p"`
}

// bookResponse es la respuesta de GET /book.
type bookResponse struct {
	AssetID string         `json:"asset_id"`
	Bids    []bookEntryRaw `json:"bids"`
	Asks    []bookEntryRaw `json:"asks"`
}

type bookEntryRaw struct {
	Price string `json:"price"`
	Size  string `json:"size"`
}
