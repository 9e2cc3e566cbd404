package repository_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/okian/fieldday/internal/adapters/repository"
	"github.com/okian/fieldday/internal/domain/model"
	"github.com/okian/fieldday/internal/domain/rules"
	. "github.com/smartystreets/goconvey/convey"
)

// seqIDs returns a deterministic ID generator for assertions on ordering.
func seqIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func TestCompetitionLifecycle(t *testing.T) {
	ctx := context.Background()

	Convey("Given an empty store", t, func() {
		store := repository.NewMemStore(repository.WithIDGenerator(seqIDs("id")))

		Convey("When creating a competition", func() {
			c, err := store.CreateCompetition(ctx, "Field Day 2026", rules.Default())

			Convey("Then it is readable with its rule set", func() {
				So(err, ShouldBeNil)
				So(c.ID, ShouldNotBeEmpty)

				got, err := store.Competition(ctx, c.ID)
				So(err, ShouldBeNil)
				So(got.Name, ShouldEqual, "Field Day 2026")

				r, err := store.Rules(ctx, c.ID)
				So(err, ShouldBeNil)
				So(r, ShouldResemble, rules.Default())
			})

			Convey("When replacing the rules", func() {
				next := rules.ScoringRules{TeamWin: 100}
				So(store.SetRules(ctx, c.ID, next), ShouldBeNil)

				r, err := store.Rules(ctx, c.ID)
				So(err, ShouldBeNil)
				So(r, ShouldResemble, next)
			})
		})

		Convey("When reading an unknown competition", func() {
			_, err := store.Competition(ctx, "nope")
			So(err, ShouldWrap, repository.ErrCompetitionNotFound)
		})
	})
}

func TestTeamsAndParticipants(t *testing.T) {
	ctx := context.Background()

	Convey("Given a competition", t, func() {
		store := repository.NewMemStore(repository.WithIDGenerator(seqIDs("id")))
		c, err := store.CreateCompetition(ctx, "Field Day", rules.Default())
		So(err, ShouldBeNil)

		Convey("When creating teams and participants", func() {
			red, err := store.CreateTeam(ctx, model.Team{CompetitionID: c.ID, Name: "Red", Captain: "Avery"})
			So(err, ShouldBeNil)
			blue, err := store.CreateTeam(ctx, model.Team{CompetitionID: c.ID, Name: "Blue", Captain: "Casey"})
			So(err, ShouldBeNil)

			_, err = store.CreateParticipant(ctx, model.Participant{CompetitionID: c.ID, TeamID: blue.ID, Name: "Casey"})
			So(err, ShouldBeNil)
			_, err = store.CreateParticipant(ctx, model.Participant{CompetitionID: c.ID, TeamID: red.ID, Name: "Avery"})
			So(err, ShouldBeNil)

			Convey("Then listings preserve creation order", func() {
				teams, err := store.Teams(ctx, c.ID)
				So(err, ShouldBeNil)
				So(teams, ShouldHaveLength, 2)
				So(teams[0].Name, ShouldEqual, "Red")
				So(teams[1].Name, ShouldEqual, "Blue")

				participants, err := store.Participants(ctx, c.ID)
				So(err, ShouldBeNil)
				So(participants[0].Name, ShouldEqual, "Casey")
				So(participants[1].Name, ShouldEqual, "Avery")
			})
		})

		Convey("When creating a participant on an unknown team", func() {
			_, err := store.CreateParticipant(ctx, model.Participant{CompetitionID: c.ID, TeamID: "ghost", Name: "X"})
			So(err, ShouldWrap, repository.ErrTeamNotFound)
		})

		Convey("When creating a team in an unknown competition", func() {
			_, err := store.CreateTeam(ctx, model.Team{CompetitionID: "nope", Name: "Red"})
			So(err, ShouldWrap, repository.ErrCompetitionNotFound)
		})
	})
}

func TestActivitiesAndRecords(t *testing.T) {
	ctx := context.Background()

	Convey("Given a competition with teams", t, func() {
		store := repository.NewMemStore(repository.WithIDGenerator(seqIDs("id")))
		c, err := store.CreateCompetition(ctx, "Field Day", rules.Default())
		So(err, ShouldBeNil)
		red, err := store.CreateTeam(ctx, model.Team{CompetitionID: c.ID, Name: "Red"})
		So(err, ShouldBeNil)
		blue, err := store.CreateTeam(ctx, model.Team{CompetitionID: c.ID, Name: "Blue"})
		So(err, ShouldBeNil)

		activity, err := store.CreateActivity(ctx, model.Activity{CompetitionID: c.ID, Name: "Tug of War", Type: model.TypeTeam})
		So(err, ShouldBeNil)

		Convey("When replacing point records", func() {
			inserted, err := store.ReplacePointRecords(ctx, activity.ID, []model.PointRecord{
				{TeamID: red.ID, Points: 50, Kind: model.KindTeam},
				{TeamID: blue.ID, Points: 0, Kind: model.KindTeam},
			})

			Convey("Then records get IDs and the activity ID", func() {
				So(err, ShouldBeNil)
				So(inserted, ShouldHaveLength, 2)
				for _, r := range inserted {
					So(r.ID, ShouldNotBeEmpty)
					So(r.ActivityID, ShouldEqual, activity.ID)
				}
			})

			Convey("When replacing them again", func() {
				replaced, err := store.ReplacePointRecords(ctx, activity.ID, []model.PointRecord{
					{TeamID: red.ID, Points: 100, Kind: model.KindTeam},
				})
				So(err, ShouldBeNil)
				So(replaced, ShouldHaveLength, 1)

				Convey("Then the old set is gone wholesale", func() {
					got, err := store.PointRecordsByActivity(ctx, activity.ID)
					So(err, ShouldBeNil)
					So(got, ShouldHaveLength, 1)
					So(got[0].Points, ShouldEqual, 100)
				})
			})

			Convey("When deleting the activity", func() {
				So(store.DeleteActivity(ctx, activity.ID), ShouldBeNil)

				Convey("Then the activity and its records are gone", func() {
					_, err := store.Activity(ctx, activity.ID)
					So(err, ShouldWrap, repository.ErrActivityNotFound)

					records, err := store.PointRecords(ctx, c.ID)
					So(err, ShouldBeNil)
					So(records, ShouldBeEmpty)

					activities, err := store.Activities(ctx, c.ID)
					So(err, ShouldBeNil)
					So(activities, ShouldBeEmpty)
				})
			})
		})

		Convey("When updating the activity's completion state", func() {
			activity.Completed = true
			activity.WinnerName = "Red"
			So(store.UpdateActivity(ctx, activity), ShouldBeNil)

			got, err := store.Activity(ctx, activity.ID)
			So(err, ShouldBeNil)
			So(got.Completed, ShouldBeTrue)
			So(got.WinnerName, ShouldEqual, "Red")
		})

		Convey("When writing team totals", func() {
			So(store.SetTeamTotals(ctx, c.ID, map[string]int{red.ID: 65, blue.ID: -5}), ShouldBeNil)

			teams, err := store.Teams(ctx, c.ID)
			So(err, ShouldBeNil)
			So(teams[0].TotalScore, ShouldEqual, 65)
			So(teams[1].TotalScore, ShouldEqual, -5)
		})

		Convey("When replacing records of an unknown activity", func() {
			_, err := store.ReplacePointRecords(ctx, "ghost", nil)
			So(err, ShouldWrap, repository.ErrActivityNotFound)
		})

		Convey("When asking for counts", func() {
			_, err := store.ReplacePointRecords(ctx, activity.ID, []model.PointRecord{
				{TeamID: red.ID, Points: 50, Kind: model.KindTeam},
			})
			So(err, ShouldBeNil)

			competitions, activities, records := store.Counts(ctx)
			So(competitions, ShouldEqual, 1)
			So(activities, ShouldEqual, 1)
			So(records, ShouldEqual, 1)
		})
	})
}
