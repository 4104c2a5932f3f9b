package repository

import "context"

// Tx内で使えるrepo（カタログはproductsのみ）
type TxRepos interface {
	Products() ProductRepository
}

// seedの全削除＋投入を1つのTxにまとめる。fnがerrorならrollback。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
