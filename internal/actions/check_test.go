package actions_test

import (
	"context"
	"errors"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/imagerefresh/internal/actions"
	"github.com/nicholas-fedor/imagerefresh/internal/actions/mocks"
	"github.com/nicholas-fedor/imagerefresh/pkg/runtime"
)

var _ = ginkgo.Describe("CheckPrerequisites", func() {
	ginkgo.When("the runtime responds to both probes", func() {
		ginkgo.It("succeeds", func() {
			client := mocks.CreateMockClient(&mocks.TestData{})

			gomega.Expect(actions.CheckPrerequisites(context.Background(), client)).
				To(gomega.Succeed())
		})
	})

	ginkgo.When("the runtime binary is unavailable", func() {
		ginkgo.It("fails with the availability error", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				AvailabilityErr: runtime.ErrRuntimeUnavailable,
			})

			err := actions.CheckPrerequisites(context.Background(), client)
			gomega.Expect(err).To(gomega.MatchError(runtime.ErrRuntimeUnavailable))
		})
	})

	ginkgo.When("the user lacks runtime permissions", func() {
		ginkgo.It("fails with the permission error", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				PermissionsErr: runtime.ErrPermissionDenied,
			})

			err := actions.CheckPrerequisites(context.Background(), client)
			gomega.Expect(err).To(gomega.MatchError(runtime.ErrPermissionDenied))
		})
	})
})

var _ = ginkgo.Describe("CleanupDanglingImages", func() {
	ginkgo.When("the prune succeeds", func() {
		ginkgo.It("returns the runtime's summary", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				PruneSummary: "Total reclaimed space: 1.5GB",
			})

			summary := actions.CleanupDanglingImages(context.Background(), client)
			gomega.Expect(summary).To(gomega.Equal("Total reclaimed space: 1.5GB"))
			gomega.Expect(client.PruneCalls).To(gomega.Equal(1))
		})
	})

	ginkgo.When("the prune fails", func() {
		ginkgo.It("logs and returns an empty summary without failing the run", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				PruneErr: errors.New("prune failed"),
			})

			summary := actions.CleanupDanglingImages(context.Background(), client)
			gomega.Expect(summary).To(gomega.BeEmpty())
		})
	})
})
