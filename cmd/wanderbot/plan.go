package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"wanderbot/internal/adapters/weather"
	"wanderbot/internal/app"
	"wanderbot/internal/assistant"
	mysqlrepo "wanderbot/internal/storage/mysql"
)

func newPlanCmd(opts *options) *cobra.Command {
	var (
		withDB  bool
		offline bool
		tools   bool
		name    string
		home    string
	)
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Chat with WanderBot: memory, season context and weather/hotel tools",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := opts.connect(ctx)
			if err != nil {
				if !offline {
					return err
				}
				log.Warn().Err(err).Msg("running offline")
				m = nil
			}

			wx := weather.New(opts.cfg.WeatherBase, opts.cfg.GeocodingBase, 2)
			router := &assistant.ToolRouter{Geocoder: wx, Weather: wx}
			if withDB {
				db, err := sql.Open("mysql", opts.cfg.MySQLDSN)
				if err != nil {
					return fmt.Errorf("open database: %w", err)
				}
				defer db.Close()
				if err := db.PingContext(ctx); err != nil {
					return fmt.Errorf("ping database: %w", err)
				}
				router.Hotels = app.NewQueryService(mysqlrepo.New(db), nil, 0)
			}

			cfg := assistant.Config{BotName: name, Offline: offline, ModelTools: tools}
			if home != "" {
				cfg.Profile = map[string]any{"home_city": home}
			}
			bot, err := assistant.New(m, router, nil, nil, cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s ready. Type exit to leave.\n", botName(cfg))
			return readLoop(cmd, "You: ", func(line string) {
				tctx, cancel := context.WithTimeout(ctx, opts.timeout)
				defer cancel()
				reply, err := bot.Respond(tctx, line, nil, "")
				if err != nil {
					fmt.Fprintln(out, "Error:", err)
					return
				}
				fmt.Fprintf(out, "%s: %s\n", botName(cfg), reply.Text)
			})
		},
	}
	cmd.Flags().BoolVar(&withDB, "with-db", false, "Search hotel listings in MySQL (MYSQL_DSN)")
	cmd.Flags().BoolVar(&offline, "offline", false, "Answer with a local stub when the model is unreachable")
	cmd.Flags().BoolVar(&tools, "model-tools", false, "Let the model request weather and hotel lookups itself")
	cmd.Flags().StringVar(&name, "name", assistant.DefaultBotName, "Bot name")
	cmd.Flags().StringVar(&home, "home", "", "Home city for the user profile")
	return cmd
}

func botName(cfg assistant.Config) string {
	if cfg.BotName == "" {
		return assistant.DefaultBotName
	}
	return cfg.BotName
}
