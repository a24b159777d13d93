package commandRepository

import (
	"EchoOS/internal/entity"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient() Client
}

func (r *repository) NewClient() Client {
	return Client{
		Logs: &logRepository{q: r.DB, log: r.log},
	}
}

type Client struct {
	Logs interface {
		Append(ctx context.Context, record entity.CommandLog) error
		Recent(ctx context.Context, limit int) ([]entity.CommandLog, error)
	}
}

type logRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
