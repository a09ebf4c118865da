package mssql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/microsoft/go-mssqldb"

	"fc-roster-parser/internal/observability"
	"fc-roster-parser/internal/storage"
)

const schema = `
IF OBJECT_ID(N'dbo.TblPlayers', N'U') IS NULL
CREATE TABLE dbo.TblPlayers (
	[UID]                INT IDENTITY(1,1) PRIMARY KEY,
	[PlayerKey]          CHAR(64)       NOT NULL UNIQUE,
	[ContentHash]        CHAR(64)       NOT NULL,
	[Name]               NVARCHAR(200)  NOT NULL,
	[Overall]            INT            NOT NULL,
	[Position]           VARCHAR(8)     NOT NULL,
	[Club]               NVARCHAR(200)  NOT NULL,
	[Nation]             NVARCHAR(200)  NOT NULL,
	[League]             NVARCHAR(200)  NOT NULL,
	[Quality]            VARCHAR(16)    NOT NULL,
	[Status]             VARCHAR(16)    NOT NULL,
	[Pace]               VARCHAR(8)     NOT NULL,
	[Shooting]           VARCHAR(8)     NOT NULL,
	[Passing]            VARCHAR(8)     NOT NULL,
	[Dribbling]          VARCHAR(8)     NOT NULL,
	[Defense]            VARCHAR(8)     NOT NULL,
	[Physicality]        VARCHAR(8)     NOT NULL,
	[Traits]             NVARCHAR(1000) NOT NULL,
	[AlternatePositions] VARCHAR(100)   NOT NULL,
	[RosterRank]         INT            NOT NULL,
	[ScrapedAt]          DATETIME2      NOT NULL
);`

type Repository struct {
	db             *sql.DB
	commandTimeout time.Duration
	logger         *observability.Logger
}

func NewRepository(dsn string, commandTimeoutMS int, logger *observability.Logger) (*Repository, error) {
	db, err := sql.Open("sqlserver", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Тестируем соединение
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{
		db:             db,
		commandTimeout: time.Duration(commandTimeoutMS) * time.Millisecond,
		logger:         logger,
	}, nil
}

// EnsureSchema создаёт таблицу, если её нет
func (r *Repository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// UpsertPlayer сохраняет или обновляет игрока. Строка с тем же ContentHash не трогается.
func (r *Repository) UpsertPlayer(ctx context.Context, row *storage.PlayerRow) (isNew bool, isUpdated bool, err error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	// MERGE statement для MS SQL
	query := `
		MERGE INTO dbo.TblPlayers AS target
		USING (SELECT @PlayerKey AS PlayerKey) AS source
		ON target.[PlayerKey] = source.PlayerKey
		WHEN MATCHED AND target.[ContentHash] <> @ContentHash THEN
			UPDATE SET
				[ContentHash] = @ContentHash,
				[Club] = @Club,
				[Nation] = @Nation,
				[League] = @League,
				[Quality] = @Quality,
				[Status] = @Status,
				[Pace] = @Pace,
				[Shooting] = @Shooting,
				[Passing] = @Passing,
				[Dribbling] = @Dribbling,
				[Defense] = @Defense,
				[Physicality] = @Physicality,
				[Traits] = @Traits,
				[AlternatePositions] = @AlternatePositions,
				[RosterRank] = @RosterRank,
				[ScrapedAt] = @ScrapedAt
		WHEN NOT MATCHED THEN
			INSERT ([PlayerKey], [ContentHash], [Name], [Overall], [Position], [Club], [Nation], [League],
				[Quality], [Status], [Pace], [Shooting], [Passing], [Dribbling], [Defense], [Physicality],
				[Traits], [AlternatePositions], [RosterRank], [ScrapedAt])
			VALUES (@PlayerKey, @ContentHash, @Name, @Overall, @Position, @Club, @Nation, @League,
				@Quality, @Status, @Pace, @Shooting, @Passing, @Dribbling, @Defense, @Physicality,
				@Traits, @AlternatePositions, @RosterRank, @ScrapedAt)
		OUTPUT $action;
	`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return false, false, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() {
		if err := stmt.Close(); err != nil {
			r.logger.Error("Failed to close statement", "error", err.Error())
		}
	}()

	rec := row.Record
	var action string
	err = stmt.QueryRowContext(ctx,
		sql.Named("PlayerKey", row.Key),
		sql.Named("ContentHash", row.ContentHash),
		sql.Named("Name", rec.Name),
		sql.Named("Overall", rec.Overall),
		sql.Named("Position", rec.Position),
		sql.Named("Club", rec.Club),
		sql.Named("Nation", rec.Nation),
		sql.Named("League", rec.League),
		sql.Named("Quality", string(rec.Quality)),
		sql.Named("Status", string(rec.Status)),
		sql.Named("Pace", rec.Pace),
		sql.Named("Shooting", rec.Shooting),
		sql.Named("Passing", rec.Passing),
		sql.Named("Dribbling", rec.Dribbling),
		sql.Named("Defense", rec.Defense),
		sql.Named("Physicality", rec.Physicality),
		sql.Named("Traits", rec.Traits),
		sql.Named("AlternatePositions", rec.AlternatePositions),
		sql.Named("RosterRank", row.Rank),
		sql.Named("ScrapedAt", row.ScrapedAt),
	).Scan(&action)

	if errors.Is(err, sql.ErrNoRows) {
		// Данные не изменились
		return false, false, nil
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to execute upsert: %w", err)
	}

	switch action {
	case "INSERT":
		return true, false, nil
	case "UPDATE":
		return false, true, nil
	}
	return false, false, nil
}

// CountPlayers получает количество сохранённых игроков
func (r *Repository) CountPlayers(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.commandTimeout)
	defer cancel()

	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM dbo.TblPlayers`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to query database: %w", err)
	}

	return count, nil
}

// Close закрывает соединение с БД
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
