package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	_ "github.com/teetananch67-commits/Tanny/docs"
	"github.com/teetananch67-commits/Tanny/internal/address"
	"github.com/teetananch67-commits/Tanny/internal/config"
	"github.com/teetananch67-commits/Tanny/internal/menu"
	"github.com/teetananch67-commits/Tanny/internal/order"
	"github.com/teetananch67-commits/Tanny/internal/promotion"
	"github.com/teetananch67-commits/Tanny/internal/settings"
	"github.com/teetananch67-commits/Tanny/internal/user"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.WithError(err).Fatal("load config")
	}

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	deps := routerDeps{
		cfg:    cfg,
		log:    log,
		users:  user.NewPGRepo(pool),
		menus:  menu.NewPGRepo(pool),
		orders: order.NewPGRepo(pool),
		addrs:  address.NewPGRepo(pool),
		sets:   settings.NewPGRepo(pool),
		promos: promotion.NewPGRepo(pool),
	}

	r := newRouter(deps)
	log.WithField("addr", cfg.HTTPAddr).Info("server listening")
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.WithError(err).Fatal("server stopped")
	}
}
