package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"
	"github.com/vytor/medpass/internal/models"
	"github.com/vytor/medpass/internal/repository"
	"github.com/vytor/medpass/internal/repository/sqlite"
	"github.com/vytor/medpass/internal/testutil"
)

type LectureRepositorySuite struct {
	suite.Suite
	db   *sql.DB
	repo repository.LectureRepository
}

func (s *LectureRepositorySuite) SetupTest() {
	s.db = testutil.NewTestDB(s.T())
	s.repo = sqlite.NewLectureRepository(s.db)
}

func lectureFixture(blockID, lectureID, state string, nextDue *int64) models.LectureRecord {
	return models.LectureRecord{
		Key:     models.LectureKey(blockID, lectureID),
		BlockID: blockID,
		ID:      lectureID,
		Name:    "Lecture " + lectureID,
		Status:  models.LectureStatus{State: state},
		Passes: []models.LecturePass{
			{Order: 1, Label: "Pass 1", Anchor: "today", Due: nextDue, Action: "Notes"},
		},
		NextDueAt: nextDue,
	}
}

func (s *LectureRepositorySuite) TestPutAndGet() {
	ctx := context.Background()
	due := int64(1700000000000)

	record := lectureFixture("msk", "anatomy-1", models.StatePending, &due)
	s.Require().NoError(s.repo.Put(ctx, record))

	got, err := s.repo.Get(ctx, "msk", "anatomy-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("msk|anatomy-1", got.Key)
	s.Assert().Equal("Lecture anatomy-1", got.Name)
	s.Require().NotNil(got.NextDueAt)
	s.Assert().Equal(due, *got.NextDueAt)
}

func (s *LectureRepositorySuite) TestGetMissingReturnsNil() {
	got, err := s.repo.Get(context.Background(), "msk", "missing")
	s.Require().NoError(err)
	s.Assert().Nil(got)
}

func (s *LectureRepositorySuite) TestPutUpserts() {
	ctx := context.Background()
	due := int64(1700000000000)

	record := lectureFixture("msk", "anatomy-1", models.StatePending, &due)
	s.Require().NoError(s.repo.Put(ctx, record))

	record.Name = "Renamed"
	record.Status.State = models.StateComplete
	record.NextDueAt = nil
	s.Require().NoError(s.repo.Put(ctx, record))

	got, err := s.repo.Get(ctx, "msk", "anatomy-1")
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Assert().Equal("Renamed", got.Name)
	s.Assert().Equal(models.StateComplete, got.Status.State)
	s.Assert().Nil(got.NextDueAt)
}

func (s *LectureRepositorySuite) TestListFilters() {
	ctx := context.Background()
	early := int64(1700000000000)
	late := int64(1700000500000)

	s.Require().NoError(s.repo.Put(ctx, lectureFixture("msk", "anatomy-1", models.StatePending, &early)))
	s.Require().NoError(s.repo.Put(ctx, lectureFixture("msk", "anatomy-2", models.StateComplete, nil)))
	s.Require().NoError(s.repo.Put(ctx, lectureFixture("cardio", "physio-1", models.StatePending, &late)))

	all, err := s.repo.List(ctx, models.LectureFilter{})
	s.Require().NoError(err)
	s.Assert().Len(all, 3)

	byBlock, err := s.repo.List(ctx, models.LectureFilter{BlockID: "msk"})
	s.Require().NoError(err)
	s.Assert().Len(byBlock, 2)

	byState, err := s.repo.List(ctx, models.LectureFilter{State: models.StatePending})
	s.Require().NoError(err)
	s.Assert().Len(byState, 2)

	cutoff := early
	dueBefore, err := s.repo.List(ctx, models.LectureFilter{DueBefore: &cutoff})
	s.Require().NoError(err)
	s.Require().Len(dueBefore, 1)
	s.Assert().Equal("anatomy-1", dueBefore[0].ID)

	limited, err := s.repo.List(ctx, models.LectureFilter{Limit: 2})
	s.Require().NoError(err)
	s.Assert().Len(limited, 2)
}

func (s *LectureRepositorySuite) TestPutMany() {
	ctx := context.Background()

	records := []models.LectureRecord{
		lectureFixture("msk", "anatomy-1", models.StatePending, nil),
		lectureFixture("msk", "anatomy-2", models.StatePending, nil),
	}
	s.Require().NoError(s.repo.PutMany(ctx, records))

	all, err := s.repo.ListByBlock(ctx, "msk")
	s.Require().NoError(err)
	s.Assert().Len(all, 2)
}

func (s *LectureRepositorySuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, lectureFixture("msk", "anatomy-1", models.StatePending, nil)))
	s.Require().NoError(s.repo.Delete(ctx, "msk", "anatomy-1"))

	got, err := s.repo.Get(ctx, "msk", "anatomy-1")
	s.Require().NoError(err)
	s.Assert().Nil(got)

	err = s.repo.Delete(ctx, "msk", "anatomy-1")
	s.Assert().ErrorIs(err, sql.ErrNoRows)
}

func (s *LectureRepositorySuite) TestDeleteByBlock() {
	ctx := context.Background()

	s.Require().NoError(s.repo.Put(ctx, lectureFixture("msk", "anatomy-1", models.StatePending, nil)))
	s.Require().NoError(s.repo.Put(ctx, lectureFixture("msk", "anatomy-2", models.StatePending, nil)))
	s.Require().NoError(s.repo.Put(ctx, lectureFixture("cardio", "physio-1", models.StatePending, nil)))

	deleted, err := s.repo.DeleteByBlock(ctx, "msk")
	s.Require().NoError(err)
	s.Assert().Equal(2, deleted)

	remaining, err := s.repo.List(ctx, models.LectureFilter{})
	s.Require().NoError(err)
	s.Require().Len(remaining, 1)
	s.Assert().Equal("cardio", remaining[0].BlockID)
}

func TestLectureRepositorySuite(t *testing.T) {
	suite.Run(t, new(LectureRepositorySuite))
}
