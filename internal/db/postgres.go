package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/types"
	"github.com/campuslink/campuslink-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "campuslink", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
		log.Error("Failed to enable uuid-ossp extension", "error", err)
		return nil, fmt.Errorf("failed to enable uuid-ossp extension: %w", err)
	}

	return &PostgresService{db: db, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	err := s.db.AutoMigrate(
		&types.User{},
		&types.UserToken{},
		&types.Interest{},
		&types.UserInterest{},
		&types.Post{},
		&types.Team{},
		&types.TeamMember{},
		&types.Message{},
		&types.Recommendation{},
	)
	if err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	constraints := []struct {
		table  string
		name   string
		column string
		refs   string
	}{
		{"user_token", "fk_user_token_user_id", "user_id", `"user"("id")`},
		{"user_interest", "fk_user_interest_user_id", "user_id", `"user"("id")`},
		{"user_interest", "fk_user_interest_interest_id", "interest_id", `"interest"("id")`},
		{"post", "fk_post_author_id", "author_id", `"user"("id")`},
		{"recommendation", "fk_recommendation_user_id", "user_id", `"user"("id")`},
		{"recommendation", "fk_recommendation_recommended_user_id", "recommended_user_id", `"user"("id")`},
		{"team", "fk_team_owner_id", "owner_id", `"user"("id")`},
		{"team_member", "fk_team_member_team_id", "team_id", `"team"("id")`},
		{"team_member", "fk_team_member_user_id", "user_id", `"user"("id")`},
		{"message", "fk_message_sender_id", "sender_id", `"user"("id")`},
		{"message", "fk_message_recipient_id", "recipient_id", `"user"("id")`},
	}
	for _, c := range constraints {
		drop := fmt.Sprintf(`ALTER TABLE %q DROP CONSTRAINT IF EXISTS %q`, c.table, c.name)
		if err := s.db.Exec(drop).Error; err != nil {
			s.log.Warn("Failed to drop existing constraint", "constraint", c.name, "error", err)
		}
		add := fmt.Sprintf(`ALTER TABLE %q ADD CONSTRAINT %q FOREIGN KEY (%q) REFERENCES %s ON DELETE CASCADE`, c.table, c.name, c.column, c.refs)
		if err := s.db.Exec(add).Error; err != nil {
			return fmt.Errorf("failed to add %s: %w", c.name, err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}
