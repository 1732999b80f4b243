package actions_test

import (
	"context"
	"errors"
	"fmt"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/imagerefresh/internal/actions"
	"github.com/nicholas-fedor/imagerefresh/internal/actions/mocks"
	"github.com/nicholas-fedor/imagerefresh/pkg/classify"
	"github.com/nicholas-fedor/imagerefresh/pkg/session"
	"github.com/nicholas-fedor/imagerefresh/pkg/types"
)

var errScriptedPull = errors.New("scripted pull failure")

func imageRecord(repo, tag, id string) types.ImageRecord {
	return types.ImageRecord{Repository: repo, Tag: tag, ID: types.ImageID(id)}
}

var _ = ginkgo.Describe("RunRefresh", func() {
	var classifier *classify.Classifier

	ginkgo.BeforeEach(func() {
		classifier = classify.New()
	})

	ginkgo.When("processing a mixed set of images", func() {
		ginkgo.It("produces exactly one outcome per image after exclusion", func() {
			// 12 images, 2 excluded by the untagged marker, 3 local builds,
			// 5 updated, 2 unchanged.
			data := &mocks.TestData{
				RepoDigestLists:  map[string]string{},
				AfterPullDigests: map[string]string{},
			}

			for i := range 5 {
				ref := fmt.Sprintf("updated-%d/app:latest", i)
				data.Images = append(data.Images,
					imageRecord(fmt.Sprintf("updated-%d/app", i), "latest", fmt.Sprintf("u%d", i)))
				data.RepoDigestLists[ref] = fmt.Sprintf("[updated-%d/app@sha256:old%d]", i, i)
				data.AfterPullDigests[ref] = fmt.Sprintf("updated-%d/app@sha256:new%d", i, i)
			}

			for i := range 2 {
				ref := fmt.Sprintf("unchanged-%d/app:latest", i)
				data.Images = append(data.Images,
					imageRecord(fmt.Sprintf("unchanged-%d/app", i), "latest", fmt.Sprintf("s%d", i)))
				data.RepoDigestLists[ref] = fmt.Sprintf("[unchanged-%d/app@sha256:same%d]", i, i)
				data.AfterPullDigests[ref] = fmt.Sprintf("unchanged-%d/app@sha256:same%d", i, i)
			}

			for i := range 3 {
				data.Images = append(data.Images,
					imageRecord(fmt.Sprintf("local-build-%d", i), "dev", fmt.Sprintf("l%d", i)))
				// No digest list entry: the mock reports "[]", a local build.
			}

			data.Images = append(data.Images,
				imageRecord("dangling-1", "<none>", "d1"),
				imageRecord("dangling-2", "<none>", "d2"))

			client := mocks.CreateMockClient(data)
			params := types.RefreshParams{ExcludeTags: []string{"<none>"}}

			report, err := actions.RunRefresh(
				context.Background(), client, classifier, params, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			stats := session.NewRunStats()
			stats.Fill(report)

			gomega.Expect(stats.Total).To(gomega.Equal(10))
			gomega.Expect(stats.Updated).To(gomega.Equal(5))
			gomega.Expect(stats.Unchanged).To(gomega.Equal(2))
			gomega.Expect(stats.Failed).To(gomega.Equal(0))
			gomega.Expect(stats.SkippedLocal).To(gomega.Equal(3))
			gomega.Expect(report.All()).To(gomega.HaveLen(10))
		})

		ginkgo.It("never produces an outcome for an excluded tag", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Images: []types.ImageRecord{
					imageRecord("nginx", "latest", "aaa"),
					imageRecord("nginx", "foo", "bbb"),
				},
				RepoDigestLists: map[string]string{
					"nginx:latest": "[nginx@sha256:abc]",
					"nginx:foo":    "[nginx@sha256:def]",
				},
			})

			report, err := actions.RunRefresh(
				context.Background(), client, classifier,
				types.RefreshParams{ExcludeTags: []string{"foo"}}, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			for _, outcome := range report.All() {
				gomega.Expect(outcome.Ref().Tag).NotTo(gomega.Equal("foo"))
			}

			gomega.Expect(report.All()).To(gomega.HaveLen(1))
		})
	})

	ginkgo.When("a pull fails", func() {
		ginkgo.It("records the image as failed and continues the batch", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Images: []types.ImageRecord{
					imageRecord("broken/app", "v1", "aaa"),
					imageRecord("nginx", "latest", "bbb"),
				},
				RepoDigestLists: map[string]string{
					"broken/app:v1": "[broken/app@sha256:abc]",
					"nginx:latest":  "[nginx@sha256:def]",
				},
				PullErrs: map[string]error{"broken/app:v1": errScriptedPull},
			})

			report, err := actions.RunRefresh(
				context.Background(), client, classifier, types.RefreshParams{}, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(report.Failed()).To(gomega.HaveLen(1))
			gomega.Expect(report.Failed()[0].Ref().String()).To(gomega.Equal("broken/app:v1"))
			gomega.Expect(report.All()).To(gomega.HaveLen(2))
		})
	})

	ginkgo.When("a pull panics", func() {
		ginkgo.It("converts the panic to a failed outcome at the image boundary", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Images: []types.ImageRecord{
					imageRecord("panicky/app", "v1", "aaa"),
					imageRecord("nginx", "latest", "bbb"),
				},
				RepoDigestLists: map[string]string{
					"panicky/app:v1": "[panicky/app@sha256:abc]",
					"nginx:latest":   "[nginx@sha256:def]",
				},
				PullPanics: map[string]bool{"panicky/app:v1": true},
			})

			report, err := actions.RunRefresh(
				context.Background(), client, classifier, types.RefreshParams{}, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(report.Failed()).To(gomega.HaveLen(1))
			gomega.Expect(report.All()).To(gomega.HaveLen(2))
		})
	})

	ginkgo.When("a digest inspection fails before classification", func() {
		ginkgo.It("records the image as failed", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Images: []types.ImageRecord{imageRecord("nginx", "latest", "aaa")},
				InspectErrs: map[string]error{
					"nginx:latest": errScriptedPull,
				},
			})

			report, err := actions.RunRefresh(
				context.Background(), client, classifier, types.RefreshParams{}, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(report.Failed()).To(gomega.HaveLen(1))
		})
	})

	ginkgo.When("local builds are included", func() {
		ginkgo.It("pulls images the classifier marked local", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Images: []types.ImageRecord{imageRecord("my-custom-app", "v1", "aaa")},
				RepoDigestLists: map[string]string{
					"my-custom-app:v1": "[my-custom-app@sha256:abc]",
				},
			})

			report, err := actions.RunRefresh(
				context.Background(), client, classifier,
				types.RefreshParams{IncludeLocalBuilds: true}, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(client.PulledRefs).To(gomega.ContainElement("my-custom-app:v1"))
			gomega.Expect(report.SkippedLocal()).To(gomega.BeEmpty())
		})

		ginkgo.It("skips local builds by default without pulling", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Images: []types.ImageRecord{imageRecord("my-custom-app", "v1", "aaa")},
				RepoDigestLists: map[string]string{
					"my-custom-app:v1": "[my-custom-app@sha256:abc]",
				},
			})

			report, err := actions.RunRefresh(
				context.Background(), client, classifier, types.RefreshParams{}, nil)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(client.PulledRefs).To(gomega.BeEmpty())
			gomega.Expect(report.SkippedLocal()).To(gomega.HaveLen(1))
		})
	})

	ginkgo.When("the run is interrupted", func() {
		ginkgo.It("abandons remaining images and reports the interrupt", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			client := mocks.CreateMockClient(&mocks.TestData{
				Images: []types.ImageRecord{imageRecord("nginx", "latest", "aaa")},
			})

			report, err := actions.RunRefresh(
				ctx, client, classifier, types.RefreshParams{}, nil)
			gomega.Expect(err).To(gomega.MatchError(actions.ErrInterrupted))
			gomega.Expect(report.All()).To(gomega.BeEmpty())
			gomega.Expect(client.PulledRefs).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("the listing fails", func() {
		ginkgo.It("returns the error without producing outcomes", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				ListErr: errScriptedPull,
			})

			report, err := actions.RunRefresh(
				context.Background(), client, classifier, types.RefreshParams{}, nil)
			gomega.Expect(err).To(gomega.HaveOccurred())
			gomega.Expect(report).To(gomega.BeNil())
		})
	})

	ginkgo.When("a progress callback is provided", func() {
		ginkgo.It("is invoked once per processed image", func() {
			client := mocks.CreateMockClient(&mocks.TestData{
				Images: []types.ImageRecord{
					imageRecord("nginx", "latest", "aaa"),
					imageRecord("redis", "7", "bbb"),
				},
				RepoDigestLists: map[string]string{
					"nginx:latest": "[nginx@sha256:abc]",
					"redis:7":      "[redis@sha256:def]",
				},
			})

			var seen []string

			_, err := actions.RunRefresh(
				context.Background(), client, classifier, types.RefreshParams{},
				func(_, _ int, ref types.ImageRef) {
					seen = append(seen, ref.String())
				})
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(seen).To(gomega.Equal([]string{"nginx:latest", "redis:7"}))
		})
	})
})
