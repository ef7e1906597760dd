package repositories

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/mini-spade/internal/domain/patent"
	"github.com/turtacn/mini-spade/internal/infrastructure/database/postgres"
	"github.com/turtacn/mini-spade/internal/infrastructure/monitoring/logging"
	pkgerrors "github.com/turtacn/mini-spade/pkg/errors"
)

var patentRowColumns = []string{
	"id", "title", "abstract", "inventors", "publication_date", "relevance_score",
	"assignee", "status", "cpc_codes", "claims",
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type PatentRepoTestSuite struct {
	suite.Suite
	db   *sql.DB
	mock sqlmock.Sqlmock
	repo *PatentRepository
	ctx  context.Context
}

func (s *PatentRepoTestSuite) SetupTest() {
	var err error
	s.db, s.mock, err = sqlmock.New()
	require.NoError(s.T(), err)

	log := logging.NewNopLogger()
	s.repo = NewPatentRepository(postgres.NewConnectionWithDB(s.db, log), log)
	s.ctx = context.Background()
}

func (s *PatentRepoTestSuite) TearDownTest() {
	s.NoError(s.mock.ExpectationsWereMet())
	s.db.Close()
}

func TestPatentRepoTestSuite(t *testing.T) {
	suite.Run(t, new(PatentRepoTestSuite))
}

func (s *PatentRepoTestSuite) filter(opts ...patent.FilterOption) *patent.SearchFilter {
	f, err := patent.NewSearchFilter(opts...)
	s.Require().NoError(err)
	return f
}

func (s *PatentRepoTestSuite) TestSearch_EmptyFilterReturnsFirstPage() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM patents")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	s.mock.ExpectQuery(`SELECT .* FROM patents ORDER BY relevance_score DESC, id ASC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(patentRowColumns).
			AddRow("US-2", "Drip irrigation", "Water saving.", `{"Ada Lovelace","Alan Turing"}`, date(2021, 3, 1), 9.5,
				"Acme", "Active", "{A01G25/02}", `{"1. A system"}`).
			AddRow("US-1", "Sprinkler", "Garden.", "{}", date(2019, 5, 2), 4.0, nil, nil, "{}", "{}"))
	s.mock.ExpectRollback()

	page, err := s.repo.Search(s.ctx, s.filter())
	s.Require().NoError(err)

	s.Equal(int64(2), page.TotalResults)
	s.Equal(1, page.TotalPages)
	s.Equal(1, page.CurrentPage)
	s.Require().Len(page.Results, 2)

	first := page.Results[0]
	s.Equal("US-2", first.ID)
	s.Equal([]string{"Ada Lovelace", "Alan Turing"}, first.Inventors)
	s.Equal("ada lovelace,alan turing", first.InventorsText)
	s.Equal("2021-03-01", first.PublicationDate.String())
	s.Require().NotNil(first.Assignee)
	s.Equal("Acme", *first.Assignee)
	s.Require().NotNil(first.Status)
	s.Equal(patent.StatusActive, *first.Status)
	s.Equal([]string{"A01G25/02"}, first.CPCCodes)
	s.Equal([]string{"1. A system"}, first.Claims)

	second := page.Results[1]
	s.Nil(second.Assignee)
	s.Nil(second.Status)
	s.Nil(second.CPCCodes)
	s.Equal([]string{}, second.Inventors)
}

func (s *PatentRepoTestSuite) TestSearch_FiltersBindEveryValue() {
	start, end := date(2020, 1, 1), date(2020, 12, 31)
	f := s.filter(
		patent.WithQuery("50%"),
		patent.WithDateRange(start, end),
		patent.WithInventor("lovelace"),
		patent.WithPage(2, 10),
	)

	where := `WHERE \(title ILIKE \$1 ESCAPE '\\' OR abstract ILIKE \$1 ESCAPE '\\'\) ` +
		`AND publication_date >= \$2 AND publication_date <= \$3 AND inventors_text ILIKE \$4 ESCAPE '\\'`

	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM patents ` + where).
		WithArgs(`%50\%%`, start, end, "%lovelace%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))
	s.mock.ExpectQuery(`SELECT .* FROM patents ` + where + ` ORDER BY relevance_score DESC, id ASC LIMIT \$5 OFFSET \$6`).
		WithArgs(`%50\%%`, start, end, "%lovelace%", 10, 10).
		WillReturnRows(sqlmock.NewRows(patentRowColumns).
			AddRow("US-11", "t", "50% less water", "{Lovelace}", date(2020, 4, 4), 1.0, nil, nil, "{}", "{}"))
	s.mock.ExpectRollback()

	page, err := s.repo.Search(s.ctx, f)
	s.Require().NoError(err)
	s.Equal(int64(25), page.TotalResults)
	s.Equal(3, page.TotalPages)
	s.Equal(2, page.CurrentPage)
	s.Len(page.Results, 1)
}

func (s *PatentRepoTestSuite) TestSearch_NoMatchesSkipsPageQuery() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT COUNT\(\*\) FROM patents WHERE publication_date >= \$1 AND publication_date <= \$2`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	s.mock.ExpectRollback()

	page, err := s.repo.Search(s.ctx, s.filter(patent.WithDateRange(date(2022, 1, 1), date(2021, 1, 1))))
	s.Require().NoError(err)
	s.Equal(int64(0), page.TotalResults)
	s.Equal(0, page.TotalPages)
	s.NotNil(page.Results)
	s.Empty(page.Results)
}

func (s *PatentRepoTestSuite) TestSearch_PageBeyondEnd() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM patents")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	s.mock.ExpectRollback()

	page, err := s.repo.Search(s.ctx, s.filter(patent.WithPage(3, 10)))
	s.Require().NoError(err)
	s.Equal(int64(5), page.TotalResults)
	s.Equal(1, page.TotalPages)
	s.Equal(3, page.CurrentPage)
	s.Empty(page.Results)
}

func (s *PatentRepoTestSuite) TestSearch_StoreFailure() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM patents")).
		WillReturnError(errors.New("connection reset by peer"))
	s.mock.ExpectRollback()

	page, err := s.repo.Search(s.ctx, s.filter())
	s.Nil(page)
	s.True(pkgerrors.IsStoreUnavailable(err))
}

func (s *PatentRepoTestSuite) TestSearch_InvalidFilter() {
	_, err := s.repo.Search(s.ctx, &patent.SearchFilter{Page: 0, PageSize: 10})
	s.True(pkgerrors.IsInvalidParam(err))

	_, err = s.repo.Search(s.ctx, nil)
	s.True(pkgerrors.IsInvalidParam(err))
}

func (s *PatentRepoTestSuite) TestGetByID_Found() {
	s.mock.ExpectQuery(`SELECT .* FROM patents WHERE id = \$1`).
		WithArgs("US-1").
		WillReturnRows(sqlmock.NewRows(patentRowColumns).
			AddRow("US-1", "Title", "Abstract", "{Ada}", date(2018, 8, 8), 2.5, nil, "Expired", "{}", "{}"))

	p, err := s.repo.GetByID(s.ctx, "US-1")
	s.Require().NoError(err)
	s.Equal("US-1", p.ID)
	s.Equal(2.5, p.RelevanceScore)
	s.Equal(patent.StatusExpired, *p.Status)
}

func (s *PatentRepoTestSuite) TestGetByID_NotFound() {
	s.mock.ExpectQuery(`SELECT .* FROM patents WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	p, err := s.repo.GetByID(s.ctx, "missing")
	s.Nil(p)
	s.True(pkgerrors.IsCode(err, pkgerrors.CodePatentNotFound))
}

func (s *PatentRepoTestSuite) TestGetByID_StoreFailure() {
	s.mock.ExpectQuery(`SELECT .* FROM patents WHERE id = \$1`).
		WithArgs("US-1").
		WillReturnError(errors.New("i/o timeout"))

	_, err := s.repo.GetByID(s.ctx, "US-1")
	s.True(pkgerrors.IsStoreUnavailable(err))
	s.False(pkgerrors.IsNotFound(err))
}

func (s *PatentRepoTestSuite) TestSimilarityCorpus_OneSnapshot() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT .* FROM patents WHERE id = \$1`).
		WithArgs("US-2").
		WillReturnRows(sqlmock.NewRows(patentRowColumns).
			AddRow("US-2", "Source", "water irrigation system", "{}", date(2020, 1, 1), 1.0, nil, nil, "{}", "{}"))
	s.mock.ExpectQuery(`SELECT .* FROM patents WHERE id <> \$1 ORDER BY id ASC`).
		WithArgs("US-2").
		WillReturnRows(sqlmock.NewRows(patentRowColumns).
			AddRow("US-1", "A", "water", "{}", date(2019, 1, 1), 1.0, nil, nil, "{}", "{}").
			AddRow("US-3", "B", "irrigation", "{}", date(2021, 1, 1), 1.0, nil, nil, "{}", "{}"))
	s.mock.ExpectRollback()

	source, candidates, err := s.repo.SimilarityCorpus(s.ctx, "US-2")
	s.Require().NoError(err)
	s.Equal("US-2", source.ID)
	s.Require().Len(candidates, 2)
	s.Equal("US-1", candidates[0].ID)
	s.Equal("US-3", candidates[1].ID)
}

func (s *PatentRepoTestSuite) TestSimilarityCorpus_UnknownSource() {
	s.mock.ExpectBegin()
	s.mock.ExpectQuery(`SELECT .* FROM patents WHERE id = \$1`).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)
	s.mock.ExpectRollback()

	source, candidates, err := s.repo.SimilarityCorpus(s.ctx, "nope")
	s.Nil(source)
	s.Nil(candidates)
	s.True(pkgerrors.IsNotFound(err))
}

func (s *PatentRepoTestSuite) TestReplaceAll_Success() {
	assignee := "Acme"
	status := patent.StatusPending
	p1 := &patent.Patent{
		ID: "US-1", Title: "t1", Abstract: "a1",
		Inventors:       []string{"Ada Lovelace"},
		PublicationDate: patent.NewDate(date(2020, 2, 2)),
		RelevanceScore:  3,
		Assignee:        &assignee,
		Status:          &status,
		CPCCodes:        []string{"A01G"},
	}
	p2 := &patent.Patent{ID: "US-2", Title: "t2", Abstract: "a2", PublicationDate: patent.NewDate(date(2021, 1, 1))}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("DELETE FROM patents").WillReturnResult(sqlmock.NewResult(0, 7))
	prep := s.mock.ExpectPrepare("INSERT INTO patents")
	prep.ExpectExec().
		WithArgs("US-1", "t1", "a1", pq.Array([]string{"Ada Lovelace"}), "ada lovelace", date(2020, 2, 2), 3.0,
			"Acme", "Pending", pq.Array([]string{"A01G"}), pq.Array([]string{})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	prep.ExpectExec().
		WithArgs("US-2", "t2", "a2", pq.Array([]string{}), "", date(2021, 1, 1), 0.0,
			nil, nil, pq.Array([]string{}), pq.Array([]string{})).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectCommit()

	n, err := s.repo.ReplaceAll(s.ctx, []*patent.Patent{p1, p2})
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *PatentRepoTestSuite) TestReplaceAll_InsertFailureRollsBack() {
	p := &patent.Patent{ID: "US-1", PublicationDate: patent.NewDate(date(2020, 2, 2))}

	s.mock.ExpectBegin()
	s.mock.ExpectExec("DELETE FROM patents").WillReturnResult(sqlmock.NewResult(0, 0))
	s.mock.ExpectPrepare("INSERT INTO patents").
		ExpectExec().
		WillReturnError(errors.New("duplicate key value violates unique constraint"))
	s.mock.ExpectRollback()

	n, err := s.repo.ReplaceAll(s.ctx, []*patent.Patent{p})
	s.Equal(0, n)
	s.True(pkgerrors.IsStoreUnavailable(err))
	s.Contains(err.Error(), "id=US-1")
}

func (s *PatentRepoTestSuite) TestReplaceAll_EmptyInputClearsTable() {
	s.mock.ExpectBegin()
	s.mock.ExpectExec("DELETE FROM patents").WillReturnResult(sqlmock.NewResult(0, 4))
	s.mock.ExpectPrepare("INSERT INTO patents")
	s.mock.ExpectCommit()

	n, err := s.repo.ReplaceAll(s.ctx, nil)
	s.Require().NoError(err)
	s.Equal(0, n)
}

func (s *PatentRepoTestSuite) TestCount() {
	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM patents")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	n, err := s.repo.Count(s.ctx)
	s.Require().NoError(err)
	s.Equal(int64(42), n)

	s.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM patents")).
		WillReturnError(errors.New("down"))
	_, err = s.repo.Count(s.ctx)
	s.True(pkgerrors.IsStoreUnavailable(err))
}

//Personal.AI order the ending
