package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "engage")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithMetricPrefix("pfx"),
				WithRequestBuckets([]float64{1, 10, 100}),
				WithDeliveryBuckets([]float64{0.5, 5}),
				WithConstLabel("venue", "hall-a"),
				WithConstLabel("", "ignored"),
				WithPrometheusRegistry(registry),
			)
			manager.pointAwards.Inc()
			manager.deliveryLatency.Observe(1)

			Convey("Then metric names should carry namespace, subsystem and prefix", func() {
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				found := false
				for _, f := range families {
					if strings.HasPrefix(f.GetName(), "test_namespace_test_subsystem_pfx_") {
						found = true
					}
				}
				So(found, ShouldBeTrue)
			})

			Convey("And every metric should carry the constant label", func() {
				So(manager.constLabels, ShouldResemble, prometheus.Labels{"venue": "hall-a"})
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				for _, f := range families {
					for _, m := range f.GetMetric() {
						labels := map[string]string{}
						for _, lp := range m.GetLabel() {
							labels[lp.GetName()] = lp.GetValue()
						}
						So(labels["venue"], ShouldEqual, "hall-a")
					}
				}
			})

			Convey("And delivery latency should use its own buckets", func() {
				So(manager.requestBuckets, ShouldResemble, []float64{1, 10, 100})
				So(manager.deliveryBuckets, ShouldResemble, []float64{0.5, 5})
			})
		})

		Convey("When no bucket options are given", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then the millisecond defaults apply", func() {
				So(manager.requestBuckets, ShouldResemble, defaultRequestBuckets)
				So(manager.deliveryBuckets[0], ShouldBeLessThan, 1)
				So(manager.constLabels, ShouldBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording point awards", func() {
			before := testutil.ToFloat64(globalManager.pointsAwarded)
			RecordPointsAwarded(50)
			RecordPointsAwarded(25)

			Convey("Then the points total should grow by the awarded amount", func() {
				So(testutil.ToFloat64(globalManager.pointsAwarded)-before, ShouldEqual, 75)
			})
		})

		Convey("When recording labelled counters", func() {
			before := testutil.ToFloat64(globalManager.completions.WithLabelValues("surveys", "duplicate"))
			RecordCompletion("surveys", "duplicate")

			Convey("Then the labelled series should be incremented", func() {
				So(testutil.ToFloat64(globalManager.completions.WithLabelValues("surveys", "duplicate"))-before, ShouldEqual, 1)
			})
		})

		Convey("When recording the remaining series", func() {
			So(func() {
				RecordTierPromotion("Gold")
				RecordChallengeClaim("awarded")
				RecordEventSwitch()
				UpdateActiveSessions(3)
				RecordEngagementError("invalid_amount")
				RecordLeadCaptured("created")
				RecordLeadUpdate()
				UpdateLeadsTotal(10)
				RecordDraw("won")
				RecordNotificationEnqueued("inbox")
				RecordNotificationDropped("inbox")
				RecordNotificationDelivered("inbox", "points_awarded")
				RecordDeliveryError("log")
				RecordDeliveryLatency(1.5)
				UpdateQueueSize("inbox", 2)
				UpdateQueueCapacity("inbox", 100)
				RecordHTTPRequest("state", "GET", "200")
				RecordHTTPRequestDuration("state", "GET", "200", 3)
				RecordErrorByComponent("draw", "empty_pool")
				RecordErrorByType("client_error", "medium")
				RecordErrorByEndpoint("draws", "POST", "conflict")
				RecordErrorLatency("http", "conflict", 2)
				UpdateSystemMemoryUsage(1 << 20)
				UpdateSystemGoroutineCount(12)
				RecordSystemGCPauseTime(0.4)
			}, ShouldNotPanic)
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
