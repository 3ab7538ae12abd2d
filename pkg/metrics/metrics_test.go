package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	metrics "github.com/okian/podium/pkg/metrics"
)

func TestManager(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		m := metrics.NewManager(
			metrics.WithPrometheusRegistry(registry),
			metrics.WithNamespace("test"),
			metrics.WithSubsystem("board"),
		)

		Convey("Then construction should register all metrics", func() {
			So(m, ShouldNotBeNil)
			families, err := registry.Gather()
			So(err, ShouldBeNil)
			// Counters without observations do not gather; vectors need a
			// label access first, so only unlabeled collectors show up here.
			So(families, ShouldNotBeNil)
		})
	})
}

func TestPackageHelpers(t *testing.T) {
	Convey("Given the global manager", t, func() {
		Convey("Then the helpers should not panic", func() {
			So(func() {
				metrics.RecordSubmission("new")
				metrics.RecordSubmission("improved")
				metrics.RecordSubmission("noop")
				metrics.RecordSubmissionLatency(1.5)
				metrics.RecordMovement("up")
				metrics.RecordSubmissionRetry()
				metrics.RecordStoreConflict()
				metrics.RecordStoreLoadLatency(0.2)
				metrics.RecordStoreSaveLatency(0.4)
				metrics.UpdateGamesTotal(3)
				metrics.RecordHTTPRequest("submit", "POST", "200")
				metrics.RecordHTTPRequestDuration("submit", "POST", "200", 2.0)
			}, ShouldNotPanic)
		})

		Convey("And the registry should be exposed", func() {
			So(metrics.GetRegistry(), ShouldNotBeNil)
		})
	})
}
