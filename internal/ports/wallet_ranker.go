package ports

import "context"

// WalletRanker devuelve la lista rankeada de traders a seguir.
type WalletRanker interface {
	// ListFollowedWallets devuelve hasta limit wallets ordenadas por la
	// métrica dada ("volume" | "pnl" | "roi") sobre la ventana archivada.
	ListFollowedWallets(ctx context.Context, metric string, limit int) ([]string, error)
}
