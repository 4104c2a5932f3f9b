package db

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrUnhealthy = errors.New("database unreachable")

// *sql.DB が満たす
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthCheckはtimeout以内にpingが返るか確認する
func HealthCheck(ctx context.Context, p Pinger, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("%w (timeout %s): %w", ErrUnhealthy, timeout, err)
	}
	return nil
}
