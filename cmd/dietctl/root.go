package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"example.com/ayur-diet-planner/backend/internal/catalogue"
	"example.com/ayur-diet-planner/backend/internal/config"
	"example.com/ayur-diet-planner/backend/internal/database"
	"example.com/ayur-diet-planner/backend/internal/repository"
	"example.com/ayur-diet-planner/backend/internal/rules"
)

const dateLayout = "2006-01-02"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "dietctl",
		Short:         "Инструменты генератора планов питания",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(newGenerateCmd(), newSeedFoodsCmd())
	return root
}

func newGenerateCmd() *cobra.Command {
	var (
		profilePath   string
		cataloguePath string
		date          string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Строит план питания по профилю пациента и печатает JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			generatedAt := time.Now()
			if date != "" {
				parsed, err := time.Parse(dateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
				}
				generatedAt = parsed
			}

			profile, err := readProfile(profilePath)
			if err != nil {
				return err
			}

			foods, err := catalogue.Source(cataloguePath)
			if err != nil {
				return err
			}

			plan, err := rules.GeneratePlan(profile, foods, generatedAt)
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(plan)
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "путь к JSON-профилю пациента")
	cmd.Flags().StringVar(&cataloguePath, "catalogue", "", "путь к YAML-каталогу продуктов (по умолчанию встроенный)")
	cmd.Flags().StringVar(&date, "date", "", "дата начала плана YYYY-MM-DD (по умолчанию сегодня)")
	_ = cmd.MarkFlagRequired("profile")
	return cmd
}

func newSeedFoodsCmd() *cobra.Command {
	var cataloguePath string

	cmd := &cobra.Command{
		Use:   "seed-foods",
		Short: "Загружает каталог продуктов в базу данных",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cataloguePath == "" {
				cataloguePath = cfg.Catalogue.File
			}

			foods, err := catalogue.Source(cataloguePath)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			db, err := database.Open(ctx, cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(ctx, db); err != nil {
				return err
			}

			count, err := catalogue.Seed(ctx, repository.NewFoodRepository(db), foods)
			if err != nil {
				return err
			}

			slog.Info("food catalogue seeded", slog.Int("foods", count))
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d foods\n", count)
			return nil
		},
	}

	cmd.Flags().StringVar(&cataloguePath, "file", "", "путь к YAML-каталогу продуктов (по умолчанию CATALOGUE_FILE или встроенный)")
	return cmd
}

func readProfile(path string) (rules.PatientProfile, error) {
	var profile rules.PatientProfile

	data, err := os.ReadFile(path)
	if err != nil {
		return profile, fmt.Errorf("read profile %s: %w", path, err)
	}
	if err := json.Unmarshal(data, &profile); err != nil {
		return profile, fmt.Errorf("parse profile %s: %w", path, err)
	}
	return profile, nil
}
