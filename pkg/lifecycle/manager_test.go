package lifecycle

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bacalhau-project/convergence/pkg/config"
	"github.com/bacalhau-project/convergence/pkg/models"
	"github.com/bacalhau-project/convergence/pkg/poller"
	"github.com/bacalhau-project/convergence/pkg/providers/common"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// doneAfter returns an operation check that finishes on its n-th call and
// the counter of calls made so far.
func doneAfter(n int) (poller.Check, *int) {
	calls := 0
	return func(context.Context, string) (bool, error) {
		calls++
		return calls >= n, nil
	}, &calls
}

func fastProfiles() map[string]config.Profile {
	fast := config.Profile{MaxWait: 200 * time.Millisecond, Period: time.Millisecond}
	return map[string]config.Profile{
		config.ProfileReady:     fast,
		config.ProfileStopped:   fast,
		config.ProfileDeleted:   fast,
		config.ProfileOperation: fast,
	}
}

var _ = Describe("Manager", func() {
	var (
		ctx     context.Context
		driver  *fakeDriver
		manager *Manager
	)

	BeforeEach(func() {
		ctx = context.Background()
		driver = newFakeDriver()
		manager = NewManager(driver, fastProfiles())
	})

	Describe("AwaitStatus", func() {
		It("is satisfied once the resource reaches the wanted status", func() {
			driver.script("m1", models.NodeStatusPending, models.NodeStatusPending, models.NodeStatusRunning)

			outcome, err := manager.AwaitStatus(ctx, "m1", config.ProfileReady, models.NodeStatusRunning)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(poller.Satisfied))
			Expect(driver.callCount("status")).To(Equal(3))
		})

		It("times out when the status never converges", func() {
			driver.script("m1", models.NodeStatusPending)

			outcome, err := manager.AwaitStatus(ctx, "m1", config.ProfileReady, models.NodeStatusRunning)
			Expect(outcome).To(Equal(poller.TimedOut))
			Expect(err).To(MatchError(poller.ErrTimedOut))
		})

		It("fails fast on an ERROR status", func() {
			driver.script("m1", models.NodeStatusPending, models.NodeStatusError)

			outcome, err := manager.AwaitStatus(ctx, "m1", config.ProfileReady, models.NodeStatusRunning)
			Expect(outcome).To(Equal(poller.Failed))
			Expect(err).To(MatchError(ContainSubstring("ERROR state")))
			Expect(driver.callCount("status")).To(Equal(2))
		})

		It("accepts ERROR when it is the wanted status", func() {
			driver.script("m1", models.NodeStatusError)

			outcome, err := manager.AwaitStatus(ctx, "m1", config.ProfileReady, models.NodeStatusError)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(poller.Satisfied))
		})

		It("treats a not-yet-visible resource as pending", func() {
			driver.missing["m1"] = true
			go func() {
				time.Sleep(20 * time.Millisecond)
				driver.mu.Lock()
				driver.missing["m1"] = false
				driver.scripts["m1"] = []models.NodeStatus{models.NodeStatusRunning}
				driver.mu.Unlock()
			}()

			outcome, err := manager.AwaitStatus(ctx, "m1", config.ProfileReady, models.NodeStatusRunning)
			Expect(err).NotTo(HaveOccurred())
			Expect(outcome).To(Equal(poller.Satisfied))
		})

		It("rejects unknown profiles and empty targets", func() {
			_, err := manager.AwaitStatus(ctx, "m1", "nope", models.NodeStatusRunning)
			Expect(err).To(MatchError(config.ErrUnknownProfile))

			_, err = manager.AwaitStatus(ctx, "m1", config.ProfileReady)
			Expect(err).To(MatchError(poller.ErrInvalidArgument))
		})

		It("reports every attempt to Notify", func() {
			var attempts []poller.Attempt
			manager.Notify = func(a poller.Attempt) { attempts = append(attempts, a) }
			driver.script("m1", models.NodeStatusPending, models.NodeStatusRunning)

			_, err := manager.AwaitStatus(ctx, "m1", config.ProfileReady, models.NodeStatusRunning)
			Expect(err).NotTo(HaveOccurred())
			Expect(attempts).To(HaveLen(2))
			Expect(attempts[0].Satisfied).To(BeFalse())
			Expect(attempts[1].Satisfied).To(BeTrue())
			Expect(attempts[1].Number).To(Equal(2))
		})
	})

	Describe("RetryOnConflict", func() {
		It("retries transient conflicts until the operation is accepted", func() {
			driver.failMutations("stop", errConflict, errConflict)
			done, _ := doneAfter(1)
			driver.returnOperation("stop", common.Operation{ID: "op-1", Done: done})

			accepted, err := manager.RetryOnConflict(ctx, "m1", config.ProfileOperation, driver.Stop)
			Expect(err).NotTo(HaveOccurred())
			Expect(accepted.ID).To(Equal("op-1"))
			Expect(driver.callCount("stop")).To(Equal(3))
		})

		It("gives up on a non-retryable error", func() {
			driver.failMutations("stop", errConflict, errForbidden)

			_, err := manager.RetryOnConflict(ctx, "m1", config.ProfileOperation, driver.Stop)
			Expect(err).To(MatchError(errForbidden))
			var pe *poller.Error
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Outcome).To(Equal(poller.Failed))
			Expect(driver.callCount("stop")).To(Equal(2))
		})

		It("submits the first request without the profile's initial delay", func() {
			manager = NewManager(driver, config.DefaultProfiles())

			start := time.Now()
			_, err := manager.RetryOnConflict(ctx, "m1", config.ProfileOperation, driver.Stop)
			Expect(err).NotTo(HaveOccurred())
			Expect(time.Since(start)).To(BeNumerically("<", time.Second))
			Expect(driver.callCount("stop")).To(Equal(1))
		})
	})

	Describe("lifecycle flows", func() {
		It("stops and waits for SUSPENDED", func() {
			driver.failMutations("stop", errConflict)
			driver.script("m1", models.NodeStatusPending, models.NodeStatusSuspended)

			Expect(manager.Shutdown(ctx, "m1")).To(Succeed())
			Expect(driver.callCount("stop")).To(Equal(2))
		})

		It("starts and waits for RUNNING", func() {
			driver.script("m1", models.NodeStatusPending, models.NodeStatusRunning)
			Expect(manager.Start(ctx, "m1")).To(Succeed())
		})

		It("restarts and waits for RUNNING", func() {
			driver.script("m1", models.NodeStatusPending, models.NodeStatusRunning)
			Expect(manager.Restart(ctx, "m1")).To(Succeed())
			Expect(driver.callCount("restart")).To(Equal(1))
		})

		It("does not take the RUNNING status from before a restart as done", func() {
			driver.script("m1",
				models.NodeStatusRunning, models.NodeStatusRunning,
				models.NodeStatusPending, models.NodeStatusRunning)

			Expect(manager.Restart(ctx, "m1")).To(Succeed())
			Expect(driver.callCount("status")).To(Equal(4))
		})

		It("fails a restart that never leaves RUNNING", func() {
			driver.script("m1", models.NodeStatusRunning)

			err := manager.Restart(ctx, "m1")
			Expect(err).To(MatchError(poller.ErrTimedOut))
			Expect(err).To(MatchError(ContainSubstring("waiting to leave RUNNING")))
		})

		It("goes straight to RUNNING for an in-place restart", func() {
			driver.returnOperation("restart", common.Operation{InPlace: true})
			driver.script("m1", models.NodeStatusRunning)

			Expect(manager.Restart(ctx, "m1")).To(Succeed())
			Expect(driver.callCount("status")).To(Equal(1))
		})

		It("waits for a tracked operation before checking the status", func() {
			done, polls := doneAfter(3)
			driver.returnOperation("restart", common.Operation{ID: "zone-a/op-7", Done: done})
			driver.script("m1", models.NodeStatusRunning)

			Expect(manager.Restart(ctx, "m1")).To(Succeed())
			Expect(*polls).To(Equal(3))
			Expect(driver.callCount("status")).To(Equal(1))
		})

		It("fails when the tracked operation fails", func() {
			failed := func(context.Context, string) (bool, error) {
				return false, poller.NonRetryable(errors.New("ZONE_RESOURCE_POOL_EXHAUSTED"))
			}
			driver.returnOperation("start", common.Operation{ID: "zone-a/op-8", Done: failed})
			driver.script("m1", models.NodeStatusSuspended)

			err := manager.Start(ctx, "m1")
			Expect(err).To(MatchError(ContainSubstring("operation zone-a/op-8")))
			Expect(err).To(MatchError(ContainSubstring("ZONE_RESOURCE_POOL_EXHAUSTED")))
			Expect(driver.callCount("status")).To(Equal(0))
		})

		It("deletes and waits until the resource is gone", func() {
			driver.script("m1", models.NodeStatusPending, models.NodeStatusTerminated)
			Expect(manager.Delete(ctx, "m1")).To(Succeed())
		})

		It("treats deleting a missing resource as done", func() {
			driver.failMutations("delete", poller.NotFound(nil))
			Expect(manager.Delete(ctx, "gone")).To(Succeed())
		})

		It("wraps the failing step in the error", func() {
			driver.failMutations("start", errForbidden)
			err := manager.Start(ctx, "m1")
			Expect(err).To(MatchError(ContainSubstring("start m1")))
			Expect(err).To(MatchError(errForbidden))
		})

		It("sends the stop promptly under the default profiles", func() {
			manager = NewManager(driver, config.DefaultProfiles())
			driver.script("m1", models.NodeStatusSuspended)

			cctx, cancel := context.WithCancel(ctx)
			defer cancel()
			done := make(chan error, 1)
			go func() { done <- manager.Shutdown(cctx, "m1") }()

			Eventually(func() int { return driver.callCount("stop") }, time.Second, 5*time.Millisecond).
				Should(Equal(1))
			cancel()
			Eventually(done, time.Second).Should(Receive(MatchError(poller.ErrCancelled)))
		})

		It("stops waiting when the context is cancelled", func() {
			driver.script("m1", models.NodeStatusPending)
			manager.Profiles[config.ProfileStopped] = config.Profile{MaxWait: time.Minute, Period: 5 * time.Millisecond}

			cctx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
			defer cancel()
			err := manager.Shutdown(cctx, "m1")
			Expect(err).To(MatchError(poller.ErrCancelled))
		})
	})

	Describe("AwaitAll", func() {
		It("polls every resource independently", func() {
			driver.script("a", models.NodeStatusPending, models.NodeStatusRunning)
			driver.script("b", models.NodeStatusRunning)
			driver.script("c", models.NodeStatusPending)

			results, err := manager.AwaitAll(ctx, []string{"a", "b", "c"}, config.ProfileReady, models.NodeStatusRunning)
			Expect(err).To(MatchError(poller.ErrTimedOut))
			Expect(results).To(HaveLen(3))

			Expect(results[0].ID).To(Equal("a"))
			Expect(results[0].Outcome).To(Equal(poller.Satisfied))
			Expect(results[1].Outcome).To(Equal(poller.Satisfied))
			Expect(results[2].Outcome).To(Equal(poller.TimedOut))
			Expect(results[2].Err).To(HaveOccurred())
		})

		It("joins errors in input order, not completion order", func() {
			driver.script("slow", models.NodeStatusPending)
			driver.script("fast", models.NodeStatusError)

			_, err := manager.AwaitAll(ctx, []string{"slow", "fast"}, config.ProfileReady, models.NodeStatusRunning)
			Expect(err).To(HaveOccurred())
			lines := strings.Split(err.Error(), "\n")
			Expect(lines).To(HaveLen(2))
			Expect(lines[0]).To(HavePrefix("slow: timed out"))
			Expect(lines[1]).To(HavePrefix("fast: failed"))
		})

		It("returns no error when everything converges", func() {
			driver.script("a", models.NodeStatusSuspended)
			driver.script("b", models.NodeStatusSuspended)

			results, err := manager.AwaitAll(ctx, []string{"a", "b"}, config.ProfileStopped, models.NodeStatusSuspended)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))
		})
	})
})

var _ = Describe("AwaitEach", func() {
	It("applies a custom check to every resource", func() {
		driver := newFakeDriver()
		manager := NewManager(driver, fastProfiles())
		driver.script("a", models.NodeStatusTerminated)
		driver.script("b", models.NodeStatusPending, models.NodeStatusTerminated)

		results, err := manager.AwaitEach(context.Background(), []string{"a", "b", "missing"},
			config.ProfileDeleted, manager.GoneCheck())
		Expect(err).NotTo(HaveOccurred())
		for _, r := range results {
			Expect(r.Outcome).To(Equal(poller.Satisfied), r.ID)
		}
	})

	It("rejects an empty target list", func() {
		manager := NewManager(newFakeDriver(), nil)
		_, err := manager.AwaitAll(context.Background(), []string{"a"}, config.ProfileReady)
		Expect(err).To(MatchError(poller.ErrInvalidArgument))
	})
})

var _ = Describe("Manager without a driver", func() {
	It("polls a custom check with the default classifier", func() {
		manager := NewManager(nil, fastProfiles())
		calls := 0
		check := func(context.Context, string) (bool, error) {
			calls++
			if calls < 3 {
				return false, errors.New("connection refused")
			}
			return true, nil
		}

		outcome, err := manager.Await(context.Background(), "10.0.0.5", config.ProfileReady, check)
		Expect(err).NotTo(HaveOccurred())
		Expect(outcome).To(Equal(poller.Satisfied))
		Expect(calls).To(Equal(3))
	})
})
