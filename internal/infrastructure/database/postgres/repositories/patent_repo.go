package repositories

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/turtacn/mini-spade/internal/domain/patent"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/mini-spade/pkg/errors"
)

const (
	// patentColumns is the select list consumed by scanPatent.
	patentColumns = "id, title, abstract, inventors, publication_date, relevance_score, assignee, status::text, cpc_codes, claims"

	insertPatentSQL = `
		INSERT INTO patents (
			id, title, abstract, inventors, inventors_text, publication_date,
			relevance_score, assignee, status, cpc_codes, claims
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9::patent_status, $10, $11)`

	metricsDB = "postgres"
)

// PatentRepository is the PostgreSQL implementation of patent.Repository.
// Multi-statement reads run in a read-only REPEATABLE READ transaction, so
// a search's count and page, or a similarity source and its candidates,
// always come from one snapshot.
type PatentRepository struct {
	conn    *postgres.Connection
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// RepoOption configures a PatentRepository.
type RepoOption func(*PatentRepository)

// WithMetrics records query durations on m.
func WithMetrics(m *prometheus.AppMetrics) RepoOption {
	return func(r *PatentRepository) { r.metrics = m }
}

// NewPatentRepository returns a repository using conn.
func NewPatentRepository(conn *postgres.Connection, log logging.Logger, opts ...RepoOption) *PatentRepository {
	r := &PatentRepository{conn: conn, logger: log}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var _ patent.Repository = (*PatentRepository)(nil)

// buildSearchPredicate turns the typed filter into the WHERE clause.  Absent
// dimensions contribute nothing.
func buildSearchPredicate(f *patent.SearchFilter) *predicateBuilder {
	b := &predicateBuilder{}
	if f.Query != nil {
		b.contains(*f.Query, "title", "abstract")
	}
	if f.StartDate != nil {
		b.and("publication_date >= " + b.arg(*f.StartDate))
	}
	if f.EndDate != nil {
		b.and("publication_date <= " + b.arg(*f.EndDate))
	}
	if f.Inventor != nil {
		b.contains(*f.Inventor, "inventors_text")
	}
	return b
}

// Search returns one page of matching patents ordered by relevance score
// descending, then id ascending.
func (r *PatentRepository) Search(ctx context.Context, f *patent.SearchFilter) (*patent.Page, error) {
	if f == nil {
		return nil, errors.InvalidParam("search filter must not be nil")
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}

	b := buildSearchPredicate(f)
	where := b.where()

	var (
		total   int64
		results []*patent.Patent
	)
	start := time.Now()
	err := r.conn.ReadSnapshot(ctx, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM patents"+where, b.args...).Scan(&total); err != nil {
			return errors.Wrap(err, errors.CodeStoreUnavailable, "failed to count patents")
		}
		if total == 0 || int64(f.Offset()) >= total {
			return nil
		}

		limit := b.arg(f.PageSize)
		offset := b.arg(f.Offset())
		query := fmt.Sprintf("SELECT %s FROM patents%s ORDER BY relevance_score DESC, id ASC LIMIT %s OFFSET %s",
			patentColumns, where, limit, offset)

		var err error
		results, err = queryPatents(ctx, tx, query, b.args...)
		return err
	})
	prometheus.RecordDBQuery(r.metrics, metricsDB, "search", time.Since(start), err)
	if err != nil {
		r.logger.Error("PatentRepository.Search failed", logging.Err(err))
		return nil, storeError(err, "patent search failed")
	}

	r.logger.Debug("PatentRepository.Search",
		logging.Int64("total", total),
		logging.Int("page", f.Page),
		logging.Int("returned", len(results)),
	)
	return patent.NewPage(f, results, total), nil
}

// GetByID returns the patent with the given id.
func (r *PatentRepository) GetByID(ctx context.Context, id string) (*patent.Patent, error) {
	start := time.Now()
	p, err := r.getByID(ctx, r.conn.DB(), id)
	prometheus.RecordDBQuery(r.metrics, metricsDB, "get_by_id", time.Since(start), ignoreNotFound(err))
	if err != nil {
		if !errors.IsNotFound(err) {
			r.logger.Error("PatentRepository.GetByID failed", logging.String("id", id), logging.Err(err))
		}
		return nil, err
	}
	return p, nil
}

func (r *PatentRepository) getByID(ctx context.Context, q queryExecutor, id string) (*patent.Patent, error) {
	row := q.QueryRowContext(ctx, "SELECT "+patentColumns+" FROM patents WHERE id = $1", id)
	p, err := scanPatent(row)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, errors.New(errors.CodePatentNotFound, "patent not found").WithDetail("id=" + id)
		}
		return nil, storeError(err, "failed to load patent")
	}
	return p, nil
}

// SimilarityCorpus returns the source patent and every other patent in id
// order, read from a single snapshot.
func (r *PatentRepository) SimilarityCorpus(ctx context.Context, id string) (*patent.Patent, []*patent.Patent, error) {
	var (
		source     *patent.Patent
		candidates []*patent.Patent
	)
	start := time.Now()
	err := r.conn.ReadSnapshot(ctx, func(tx *sql.Tx) error {
		var err error
		if source, err = r.getByID(ctx, tx, id); err != nil {
			return err
		}
		candidates, err = queryPatents(ctx, tx,
			"SELECT "+patentColumns+" FROM patents WHERE id <> $1 ORDER BY id ASC", id)
		return err
	})
	prometheus.RecordDBQuery(r.metrics, metricsDB, "similarity_corpus", time.Since(start), ignoreNotFound(err))
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, nil, err
		}
		r.logger.Error("PatentRepository.SimilarityCorpus failed", logging.String("id", id), logging.Err(err))
		return nil, nil, storeError(err, "failed to load similarity corpus")
	}
	return source, candidates, nil
}

// ReplaceAll deletes every patent and inserts patents in one transaction.
func (r *PatentRepository) ReplaceAll(ctx context.Context, patents []*patent.Patent) (int, error) {
	start := time.Now()
	inserted := 0
	err := r.conn.WithTransaction(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM patents")
		if err != nil {
			return errors.Wrap(err, errors.CodeStoreUnavailable, "failed to clear patents")
		}
		if deleted, err := res.RowsAffected(); err == nil {
			r.logger.Info("Cleared patents table", logging.Int64("deleted", deleted))
		}

		stmt, err := tx.PrepareContext(ctx, insertPatentSQL)
		if err != nil {
			return errors.Wrap(err, errors.CodeStoreUnavailable, "failed to prepare patent insert")
		}
		defer stmt.Close()

		for _, p := range patents {
			if _, err := stmt.ExecContext(ctx, insertArgs(p)...); err != nil {
				return errors.Wrap(err, errors.CodeStoreUnavailable, "failed to insert patent").WithDetail("id=" + p.ID)
			}
			inserted++
		}
		return nil
	})
	prometheus.RecordDBQuery(r.metrics, metricsDB, "replace_all", time.Since(start), err)
	if err != nil {
		r.logger.Error("PatentRepository.ReplaceAll failed", logging.Int("inserted_before_failure", inserted), logging.Err(err))
		return 0, storeError(err, "failed to replace patents")
	}
	return inserted, nil
}

// Count returns the number of stored patents.
func (r *PatentRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	start := time.Now()
	err := r.conn.DB().QueryRowContext(ctx, "SELECT COUNT(*) FROM patents").Scan(&n)
	prometheus.RecordDBQuery(r.metrics, metricsDB, "count", time.Since(start), err)
	if err != nil {
		return 0, errors.Wrap(err, errors.CodeStoreUnavailable, "failed to count patents")
	}
	return n, nil
}

func queryPatents(ctx context.Context, q queryExecutor, query string, args ...interface{}) ([]*patent.Patent, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeStoreUnavailable, "patent query failed")
	}
	defer rows.Close()

	var out []*patent.Patent
	for rows.Next() {
		p, err := scanPatent(rows)
		if err != nil {
			return nil, errors.Wrap(err, errors.CodeStoreUnavailable, "failed to scan patent")
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeStoreUnavailable, "patent rows iteration failed")
	}
	return out, nil
}

func scanPatent(s scanner) (*patent.Patent, error) {
	var (
		p         patent.Patent
		inventors pq.StringArray
		published time.Time
		assignee  sql.NullString
		status    sql.NullString
		cpcCodes  pq.StringArray
		claims    pq.StringArray
	)
	if err := s.Scan(
		&p.ID, &p.Title, &p.Abstract, &inventors, &published, &p.RelevanceScore,
		&assignee, &status, &cpcCodes, &claims,
	); err != nil {
		return nil, err
	}

	p.SetInventors(inventors)
	p.PublicationDate = patent.NewDate(published)
	if assignee.Valid {
		a := assignee.String
		p.Assignee = &a
	}
	if status.Valid {
		st, err := patent.ParseStatus(status.String)
		if err != nil {
			return nil, err
		}
		p.Status = &st
	}
	if len(cpcCodes) > 0 {
		p.CPCCodes = cpcCodes
	}
	if len(claims) > 0 {
		p.Claims = claims
	}
	return &p, nil
}

func insertArgs(p *patent.Patent) []interface{} {
	var assignee, status sql.NullString
	if p.Assignee != nil {
		assignee = sql.NullString{String: *p.Assignee, Valid: true}
	}
	if p.Status != nil {
		status = sql.NullString{String: p.Status.String(), Valid: true}
	}
	return []interface{}{
		p.ID, p.Title, p.Abstract,
		pq.Array(nonNil(p.Inventors)), patent.InventorsText(p.Inventors),
		p.PublicationDate.Time, p.RelevanceScore,
		assignee, status,
		pq.Array(nonNil(p.CPCCodes)), pq.Array(nonNil(p.Claims)),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// storeError keeps an AppError raised further down and wraps anything else
// as a store failure.
func storeError(err error, msg string) error {
	var ae *errors.AppError
	if stderrors.As(err, &ae) {
		return err
	}
	return errors.Wrap(err, errors.CodeStoreUnavailable, msg)
}

func ignoreNotFound(err error) error {
	if errors.IsNotFound(err) {
		return nil
	}
	return err
}

//Personal.AI order the ending
