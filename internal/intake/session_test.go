package intake_test

import (
	"sync"
	"time"

	"github.com/facebookgo/clock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gstruct"

	"resume-intake/internal/domain"
	"resume-intake/internal/intake"
)

type completionRecorder struct {
	mu    sync.Mutex
	files []domain.CandidateFile
}

func (r *completionRecorder) record(_ string, f domain.CandidateFile) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, f)
}

func (r *completionRecorder) calls() []domain.CandidateFile {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.CandidateFile, len(r.files))
	copy(out, r.files)
	return out
}

var _ = Describe("Session", func() {
	const delay = 2 * time.Second

	var (
		mock     *clock.Mock
		recorder *completionRecorder
		session  *intake.Session
		resume   domain.CandidateFile
	)

	BeforeEach(func() {
		mock = clock.NewMock()
		recorder = &completionRecorder{}
		session = intake.NewSession("sess-1", intake.Options{
			Clock:           mock,
			CompletionDelay: delay,
			OnComplete:      recorder.record,
		})
		resume = domain.CandidateFile{Name: "resume.pdf", MediaType: domain.MediaTypePDF, ByteSize: 1024}
	})

	It("starts empty", func() {
		Expect(session.State()).To(Equal(domain.EmptyIntakeState()))
	})

	When("an allowed file is submitted", func() {
		It("goes pending, then completes after the delay and notifies once", func() {
			st := session.Submit(resume)
			Expect(st.Status).To(Equal(domain.StatusPending))
			Expect(st.File).To(PointTo(Equal(resume)))

			mock.Add(delay - time.Millisecond)
			Consistently(recorder.calls, 20*time.Millisecond).Should(BeEmpty())
			Expect(session.State().Status).To(Equal(domain.StatusPending))

			mock.Add(time.Millisecond)
			Eventually(recorder.calls).Should(Equal([]domain.CandidateFile{resume}))
			Expect(session.State().Status).To(Equal(domain.StatusComplete))
			Expect(session.State().File).To(PointTo(Equal(resume)))

			mock.Add(10 * delay)
			Consistently(recorder.calls, 20*time.Millisecond).Should(HaveLen(1))
		})

		It("accepts a file of exactly the size limit", func() {
			resume.ByteSize = domain.MaxResumeBytes
			Expect(session.Submit(resume).Status).To(Equal(domain.StatusPending))
		})
	})

	When("a disallowed file is submitted", func() {
		It("rejects unsupported types regardless of size", func() {
			st := session.Submit(domain.CandidateFile{MediaType: "image/png", ByteSize: 1024})
			Expect(st.Status).To(Equal(domain.StatusRejected))
			Expect(st.Reason).To(Equal(domain.RejectionUnsupportedType))
			Expect(st.File).To(BeNil())

			st = session.Submit(domain.CandidateFile{MediaType: "image/png", ByteSize: 6291456})
			Expect(st.Reason).To(Equal(domain.RejectionUnsupportedType))
		})

		It("rejects oversized documents", func() {
			st := session.Submit(domain.CandidateFile{MediaType: domain.MediaTypePDF, ByteSize: 6291456})
			Expect(st.Status).To(Equal(domain.StatusRejected))
			Expect(st.Reason).To(Equal(domain.RejectionTooLarge))
		})

		It("never notifies", func() {
			session.Submit(domain.CandidateFile{MediaType: domain.MediaTypePDF, ByteSize: 6291456})
			mock.Add(2 * delay)
			Consistently(recorder.calls, 20*time.Millisecond).Should(BeEmpty())
		})

		It("recovers on the next valid submission", func() {
			session.Submit(domain.CandidateFile{MediaType: "image/png"})
			st := session.Submit(resume)
			Expect(st.Status).To(Equal(domain.StatusPending))
			Expect(st.Reason).To(BeEmpty())
		})
	})

	When("a pending completion is superseded", func() {
		It("is cancelled by reset", func() {
			session.Submit(resume)
			mock.Add(delay / 2)
			Expect(session.Reset()).To(Equal(domain.EmptyIntakeState()))

			mock.Add(2 * delay)
			Consistently(recorder.calls, 20*time.Millisecond).Should(BeEmpty())
			Expect(session.State()).To(Equal(domain.EmptyIntakeState()))
		})

		It("is cancelled by a new valid submission, which notifies only for itself", func() {
			second := domain.CandidateFile{Name: "cv.docx", MediaType: domain.MediaTypeDOCX, ByteSize: 2048}

			session.Submit(resume)
			mock.Add(delay / 2)
			session.Submit(second)

			mock.Add(delay / 2)
			Consistently(recorder.calls, 20*time.Millisecond).Should(BeEmpty())
			Expect(session.State().Status).To(Equal(domain.StatusPending))

			mock.Add(delay / 2)
			Eventually(recorder.calls).Should(Equal([]domain.CandidateFile{second}))
			Expect(session.State().File).To(PointTo(Equal(second)))
		})

		It("is cancelled by a rejected submission", func() {
			session.Submit(resume)
			st := session.Submit(domain.CandidateFile{MediaType: "text/plain"})
			Expect(st.Status).To(Equal(domain.StatusRejected))

			mock.Add(2 * delay)
			Consistently(recorder.calls, 20*time.Millisecond).Should(BeEmpty())
			Expect(session.State().Status).To(Equal(domain.StatusRejected))
		})

		It("is cancelled by close", func() {
			session.Submit(resume)
			session.Close()
			mock.Add(2 * delay)
			Consistently(recorder.calls, 20*time.Millisecond).Should(BeEmpty())
		})
	})

	Describe("reset", func() {
		DescribeTable("returns to empty from any state",
			func(prepare func()) {
				prepare()
				Expect(session.Reset()).To(Equal(domain.EmptyIntakeState()))
				Expect(session.Reset()).To(Equal(domain.EmptyIntakeState()))
				Expect(session.State()).To(Equal(domain.EmptyIntakeState()))
			},
			Entry("empty", func() {}),
			Entry("pending", func() { session.Submit(resume) }),
			Entry("rejected", func() { session.Submit(domain.CandidateFile{MediaType: "image/gif"}) }),
			Entry("complete", func() {
				session.Submit(resume)
				mock.Add(delay)
				Eventually(func() domain.IntakeStatus { return session.State().Status }).Should(Equal(domain.StatusComplete))
			}),
		)
	})
})
