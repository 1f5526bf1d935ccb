package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"

	"github.com/lockstake/staking-ledger/internal/api"
	"github.com/lockstake/staking-ledger/internal/clients/bankclient"
	"github.com/lockstake/staking-ledger/internal/config"
	"github.com/lockstake/staking-ledger/internal/db"
	dbmodel "github.com/lockstake/staking-ledger/internal/db/model"
	"github.com/lockstake/staking-ledger/internal/ledger"
	"github.com/lockstake/staking-ledger/internal/observability/metrics"
	"github.com/lockstake/staking-ledger/internal/observability/tracing"
	"github.com/lockstake/staking-ledger/internal/queue"
)

const shutdownTimeout = 10 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the staking ledger server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	err = dbmodel.Setup(ctx, &cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up ledger db model")
	}

	// create new db client
	var dbClient db.DbInterface
	dbClient, err = db.New(ctx, cfg.Db)
	if err != nil {
		log.Fatal().Err(err).Msg("error while creating db client")
	}
	dbClient = db.NewDbWithMetrics(dbClient)

	qm, err := queue.NewQueueManager(&cfg.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize queue manager")
	}
	defer qm.Shutdown()

	var bankClient bankclient.BankInterface
	bankClient = bankclient.NewBankClient(&cfg.Bank)
	bankClient = bankclient.NewBankClientWithMetrics(bankClient)

	svc := ledger.NewService(cfg, dbClient, bankClient, qm)
	if err := svc.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while loading ledger state")
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	statsPoller := svc.StartStatsPoller(ctx)
	defer statsPoller.Stop()

	apiServer := api.New(&cfg.Api, svc)

	var wg conc.WaitGroup
	wg.Go(func() {
		if err := apiServer.Start(); err != nil {
			log.Fatal().Err(err).Msg("api server terminated")
		}
	})

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error while shutting down api server")
	}

	wg.Wait()
	return nil
}
