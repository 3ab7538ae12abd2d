package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/sourcegraph/conc"
	"github.com/spf13/afero"

	repository "github.com/okian/podium/internal/adapters/repository"
	app "github.com/okian/podium/internal/app"
	model "github.com/okian/podium/internal/domain/model"
	"github.com/okian/podium/pkg/logger"
)

// fakeClock hands out strictly increasing timestamps so tie-breaks are
// deterministic in tests.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

func newService(t *testing.T, opts ...app.Option) *app.Service {
	t.Helper()
	if err := logger.Init(); err != nil {
		t.Fatal(err)
	}
	svc := app.New(append([]app.Option{app.WithClock(newFakeClock().Now)}, opts...)...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func entry(top []model.ScoreRecord, i int) (string, int64, model.Movement) {
	return top[i].Username, top[i].Score, top[i].Movement
}

func TestSubmit_Scenarios(t *testing.T) {
	Convey("Given an empty game g1", t, func() {
		svc := newService(t)
		ctx := context.Background()

		Convey("When alice submits 100", func() {
			top, err := svc.Submit(ctx, "g1", "alice", 100)
			So(err, ShouldBeNil)

			Convey("Then the top-N is alice alone, marked new", func() {
				So(top, ShouldHaveLength, 1)
				user, score, mv := entry(top, 0)
				So(user, ShouldEqual, "alice")
				So(score, ShouldEqual, 100)
				So(mv, ShouldEqual, model.MovementNew)
			})

			Convey("When bob then submits 150", func() {
				top, err := svc.Submit(ctx, "g1", "bob", 150)
				So(err, ShouldBeNil)

				Convey("Then bob is new on top and alice moved down", func() {
					So(top, ShouldHaveLength, 2)
					user, score, mv := entry(top, 0)
					So(user, ShouldEqual, "bob")
					So(score, ShouldEqual, 150)
					So(mv, ShouldEqual, model.MovementNew)
					user, score, mv = entry(top, 1)
					So(user, ShouldEqual, "alice")
					So(score, ShouldEqual, 100)
					So(mv, ShouldEqual, model.MovementDown)
				})

				Convey("When alice overtakes with 200", func() {
					top, err := svc.Submit(ctx, "g1", "alice", 200)
					So(err, ShouldBeNil)

					Convey("Then alice is up and bob is down", func() {
						So(top, ShouldHaveLength, 2)
						user, score, mv := entry(top, 0)
						So(user, ShouldEqual, "alice")
						So(score, ShouldEqual, 200)
						So(mv, ShouldEqual, model.MovementUp)
						user, score, mv = entry(top, 1)
						So(user, ShouldEqual, "bob")
						So(score, ShouldEqual, 150)
						So(mv, ShouldEqual, model.MovementDown)
					})

					Convey("When bob submits a non-improving 50", func() {
						top, err := svc.Submit(ctx, "g1", "bob", 50)
						So(err, ShouldBeNil)

						Convey("Then bob keeps 150 and everyone is marked same", func() {
							So(top, ShouldHaveLength, 2)
							user, score, mv := entry(top, 0)
							So(user, ShouldEqual, "alice")
							So(score, ShouldEqual, 200)
							So(mv, ShouldEqual, model.MovementSame)
							user, score, mv = entry(top, 1)
							So(user, ShouldEqual, "bob")
							So(score, ShouldEqual, 150)
							So(mv, ShouldEqual, model.MovementSame)
						})
					})
				})
			})
		})
	})
}

func TestSubmit_Idempotence(t *testing.T) {
	Convey("Given alice already on the board", t, func() {
		svc := newService(t)
		ctx := context.Background()

		first, err := svc.Submit(ctx, "g1", "alice", 100)
		So(err, ShouldBeNil)
		So(first[0].Movement, ShouldEqual, model.MovementNew)

		Convey("When she resubmits the identical score", func() {
			second, err := svc.Submit(ctx, "g1", "alice", 100)
			So(err, ShouldBeNil)

			Convey("Then the marker is same, not new, and the board is unchanged", func() {
				So(second, ShouldHaveLength, 1)
				So(second[0].Username, ShouldEqual, "alice")
				So(second[0].Score, ShouldEqual, 100)
				So(second[0].Movement, ShouldEqual, model.MovementSame)
				So(second[0].SubmittedAt, ShouldEqual, first[0].SubmittedAt)
			})
		})
	})
}

func TestSubmit_NonRegression(t *testing.T) {
	Convey("Given alice with a stored score of 100", t, func() {
		svc := newService(t)
		ctx := context.Background()
		_, err := svc.Submit(ctx, "g1", "alice", 100)
		So(err, ShouldBeNil)

		Convey("When she submits a lower score", func() {
			top, err := svc.Submit(ctx, "g1", "alice", 30)
			So(err, ShouldBeNil)

			Convey("Then her stored score never decreases", func() {
				So(top[0].Score, ShouldEqual, 100)
			})
		})
	})
}

func TestSubmit_MarkersForNonSubmitters(t *testing.T) {
	Convey("Given three users on the board", t, func() {
		svc := newService(t)
		ctx := context.Background()
		for i, user := range []string{"carol", "bob", "alice"} {
			_, err := svc.Submit(ctx, "g1", user, int64(300-100*i))
			So(err, ShouldBeNil)
		}

		Convey("When the bottom user jumps to the top", func() {
			top, err := svc.Submit(ctx, "g1", "alice", 999)
			So(err, ShouldBeNil)

			Convey("Then the non-submitters' markers shift too", func() {
				So(top, ShouldHaveLength, 3)
				So(top[0].Username, ShouldEqual, "alice")
				So(top[0].Movement, ShouldEqual, model.MovementUp)
				So(top[1].Username, ShouldEqual, "carol")
				So(top[1].Movement, ShouldEqual, model.MovementDown)
				So(top[2].Username, ShouldEqual, "bob")
				So(top[2].Movement, ShouldEqual, model.MovementDown)
			})
		})
	})
}

func TestSubmit_TopNProjection(t *testing.T) {
	Convey("Given more users than the projection size", t, func() {
		svc := newService(t, app.WithTopN(3))
		ctx := context.Background()
		for i := 0; i < 8; i++ {
			_, err := svc.Submit(ctx, "g1", fmt.Sprintf("user-%d", i), int64(100+i))
			So(err, ShouldBeNil)
		}

		Convey("When one more submission arrives", func() {
			top, err := svc.Submit(ctx, "g1", "user-0", 90)
			So(err, ShouldBeNil)

			Convey("Then only the top entries are projected, best first", func() {
				So(top, ShouldHaveLength, 3)
				So(top[0].Username, ShouldEqual, "user-7")
				So(top[1].Username, ShouldEqual, "user-6")
				So(top[2].Username, ShouldEqual, "user-5")
			})
		})
	})
}

func TestSubmit_InvalidInput(t *testing.T) {
	Convey("Given a running service", t, func() {
		svc := newService(t)
		ctx := context.Background()

		Convey("Then empty identifiers are rejected", func() {
			_, err := svc.Submit(ctx, "", "alice", 10)
			So(err, ShouldWrap, app.ErrInvalidSubmission)
			_, err = svc.Submit(ctx, "g1", "", 10)
			So(err, ShouldWrap, app.ErrInvalidSubmission)
			_, err = svc.Ranking(ctx, "")
			So(err, ShouldWrap, app.ErrInvalidSubmission)
		})
	})
}

func TestRanking(t *testing.T) {
	Convey("Given submissions across two games", t, func() {
		svc := newService(t)
		ctx := context.Background()
		_, err := svc.Submit(ctx, "g1", "alice", 100)
		So(err, ShouldBeNil)
		_, err = svc.Submit(ctx, "g2", "bob", 150)
		So(err, ShouldBeNil)

		Convey("Then each game's ranking only holds its own users", func() {
			g1, err := svc.Ranking(ctx, "g1")
			So(err, ShouldBeNil)
			So(g1, ShouldHaveLength, 1)
			So(g1[0].Username, ShouldEqual, "alice")

			g2, err := svc.Ranking(ctx, "g2")
			So(err, ShouldBeNil)
			So(g2, ShouldHaveLength, 1)
			So(g2[0].Username, ShouldEqual, "bob")
		})

		Convey("And an unknown game yields an empty ranking, not an error", func() {
			empty, err := svc.Ranking(ctx, "nope")
			So(err, ShouldBeNil)
			So(empty, ShouldBeEmpty)
		})
	})
}

func TestSubmit_ConcurrentSameGame(t *testing.T) {
	Convey("Given many concurrent submissions to one game", t, func() {
		svc := newService(t, app.WithTopN(64), app.WithMaxAttempts(50))
		ctx := context.Background()

		const users = 16
		var wg conc.WaitGroup
		for i := 0; i < users; i++ {
			i := i
			wg.Go(func() {
				if _, err := svc.Submit(ctx, "g1", fmt.Sprintf("user-%d", i), int64(100+i)); err != nil {
					t.Error(err)
				}
			})
		}
		wg.Wait()

		Convey("Then no submission is lost", func() {
			ordered, err := svc.Ranking(ctx, "g1")
			So(err, ShouldBeNil)
			So(ordered, ShouldHaveLength, users)

			Convey("And every user holds their submitted score", func() {
				scores := make(map[string]int64, len(ordered))
				for _, rec := range ordered {
					scores[rec.Username] = rec.Score
				}
				for i := 0; i < users; i++ {
					So(scores[fmt.Sprintf("user-%d", i)], ShouldEqual, int64(100+i))
				}
			})

			Convey("And every marker is a valid tag", func() {
				for _, rec := range ordered {
					So(rec.Movement, ShouldBeIn, model.MovementNew, model.MovementUp, model.MovementDown, model.MovementSame)
				}
			})
		})
	})
}

func TestSubmit_DifferentGamesDoNotInterfere(t *testing.T) {
	Convey("Given concurrent submissions across many games", t, func() {
		svc := newService(t)
		ctx := context.Background()

		var wg conc.WaitGroup
		for i := 0; i < 8; i++ {
			i := i
			wg.Go(func() {
				game := fmt.Sprintf("game-%d", i)
				if _, err := svc.Submit(ctx, game, "solo", 42); err != nil {
					t.Error(err)
				}
			})
		}
		wg.Wait()

		Convey("Then every game holds exactly its own record", func() {
			for i := 0; i < 8; i++ {
				ordered, err := svc.Ranking(ctx, fmt.Sprintf("game-%d", i))
				So(err, ShouldBeNil)
				So(ordered, ShouldHaveLength, 1)
				So(ordered[0].Movement, ShouldEqual, model.MovementNew)
			}
		})
	})
}

func TestService_StoreBackends(t *testing.T) {
	Convey("Given a service on the flat-file backend", t, func() {
		store, err := repository.NewFileStore(afero.NewMemMapFs(), "data")
		So(err, ShouldBeNil)
		svc := newService(t, app.WithStore(store))
		ctx := context.Background()

		Convey("Then the submission flow behaves identically", func() {
			top, err := svc.Submit(ctx, "g1", "alice", 100)
			So(err, ShouldBeNil)
			So(top[0].Movement, ShouldEqual, model.MovementNew)

			top, err = svc.Submit(ctx, "g1", "bob", 150)
			So(err, ShouldBeNil)
			So(top[0].Username, ShouldEqual, "bob")
			So(top[1].Movement, ShouldEqual, model.MovementDown)
		})
	})
}

func TestGetStats(t *testing.T) {
	Convey("Given a started service with one game", t, func() {
		svc := newService(t)
		_, err := svc.Submit(context.Background(), "g1", "alice", 100)
		So(err, ShouldBeNil)

		Convey("Then stats should report the game count", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeTrue)
			So(stats["games"], ShouldEqual, 1)
		})
	})
}
