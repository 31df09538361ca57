package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/prasastio/marketplace/internal/config"
	"github.com/prasastio/marketplace/internal/constants"
	"github.com/prasastio/marketplace/internal/infra"
	"github.com/prasastio/marketplace/internal/log"
	"github.com/prasastio/marketplace/internal/repository"
)

const pgUniqueViolation = "23505"

type seedItem struct {
	title       string
	description string
	price       string
	category    string
}

var seedItems = map[string][]seedItem{
	"alice@example.com": {
		{"Vintage Camera", "Fully working 35mm film camera", "120.00", "Electronics"},
		{"Leather Backpack", "Hand stitched full grain leather", "85.50", "Fashion"},
		{"Go Programming Book", "Lightly used, no notes inside", "25.00", "Books"},
	},
	"bob@example.com": {
		{"Mechanical Keyboard", "Brown switches, pbt keycaps", "65.00", "Electronics"},
		{"Ceramic Mug Set", "Four handmade mugs", "32.00", "Home"},
		{"Mountain Bike", "Hardtail, recently serviced", "340.00", "Sports"},
	},
}

// RunSeed fills the database with demo accounts and listings. The demo
// password for every account is password123. Safe to run repeatedly,
// existing accounts are reused.
func RunSeed(c context.Context) {
	cfg := config.Get(c, constants.AppMarketplace)

	logger := log.Get(filepath.Join("/var/log/", constants.AppMarketplace+".log"), cfg.Application).
		With().
		Str(log.KeyAppName, constants.AppMarketplace).
		Str(log.KeyTag, "main RunSeed").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing database").Logger()
	logger.Info().Msg("initializing database")
	c = logger.WithContext(c)
	db := infra.NewDatabaseClient(c, cfg.Database)
	defer db.Close()
	queries := repository.New(db)
	logger.Info().Msg("initialized database")

	for email, items := range seedItems {
		logger := logger.With().Str(log.KeyEmail, email).Logger()

		c = logger.WithContext(c)
		userId, err := seedUser(c, queries, email)
		if err != nil {
			logger.Fatal().Err(err).Msg(err.Error())
		}

		for _, item := range items {
			logger = logger.With().Str(log.KeyProcess, "inserting item").Logger()
			price, err := decimal.NewFromString(item.price)
			if err != nil {
				err = fmt.Errorf("failed parsing price with error=%w", err)
				logger.Fatal().Err(err).Msg(err.Error())
			}
			row, err := queries.InsertItem(c, repository.InsertItemParams{
				Title:       item.title,
				Description: pgtype.Text{String: item.description, Valid: true},
				Price: pgtype.Numeric{
					Int:   price.Coefficient(),
					Exp:   price.Exponent(),
					Valid: true,
				},
				Category: item.category,
				UserID:   userId,
			})
			if err != nil {
				err = fmt.Errorf("failed inserting item with error=%w", err)
				logger.Fatal().Err(err).Msg(err.Error())
			}
			logger.Info().Str(log.KeyItemId, row.ID.String()).Msgf("inserted item %s", item.title)
		}
	}
	logger.Info().Msg("seeded database")
}

func seedUser(
	c context.Context,
	queries *repository.Queries,
	email string,
) (uuid.UUID, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyProcess, "inserting user").
		Logger()

	logger.Info().Msg("inserting user")
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed hashing password with error=%w", err)
	}
	user, err := queries.InsertUser(c, repository.InsertUserParams{
		Email:    email,
		Password: string(hashed),
	})
	if err != nil {
		pgErr := &pgconn.PgError{}
		if !errors.As(err, &pgErr) || pgErr.Code != pgUniqueViolation {
			return uuid.Nil, fmt.Errorf("failed inserting user with error=%w", err)
		}
		logger.Info().Msg("user already exists, reusing")
		user, err = queries.FindUserByEmail(c, email)
		if err != nil {
			return uuid.Nil, fmt.Errorf("failed finding user with error=%w", err)
		}
	}

	if _, err := queries.UpsertCart(c, user.ID); err != nil {
		return uuid.Nil, fmt.Errorf("failed upserting cart with error=%w", err)
	}
	logger.Info().Str(log.KeyUserId, user.ID.String()).Msg("inserted user")

	return user.ID, nil
}
