package logging_test

import (
	"bytes"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ssesim/internal/logging"
)

var _ = Describe("New", func() {
	It("writes info records with fields", func() {
		var buf bytes.Buffer
		l := logging.New(logging.WithWriter(&buf))
		l.Info("run finished", "rows", 11)

		Expect(buf.String()).To(ContainSubstring("run finished"))
		Expect(buf.String()).To(ContainSubstring("rows=11"))
	})

	It("filters debug unless enabled", func() {
		var buf bytes.Buffer
		logging.New(logging.WithWriter(&buf)).Debug("hidden")
		Expect(buf.String()).To(BeEmpty())

		logging.New(logging.WithWriter(&buf), logging.WithDebug(true)).Debug("shown")
		Expect(buf.String()).To(ContainSubstring("shown"))
	})

	It("parses level names", func() {
		var buf bytes.Buffer
		l := logging.New(logging.WithWriter(&buf), logging.WithLevel("error"))
		l.Warn("quiet")
		Expect(buf.String()).To(BeEmpty())
	})

	It("adds the prefix", func() {
		var buf bytes.Buffer
		logging.New(logging.WithWriter(&buf), logging.WithPrefix("batch")).Info("go")
		Expect(buf.String()).To(ContainSubstring("batch"))
	})

	It("emits JSON", func() {
		var buf bytes.Buffer
		logging.New(logging.WithWriter(&buf), logging.WithJSON(true)).Info("structured", "seed", 3)

		var parsed map[string]any
		Expect(json.Unmarshal(buf.Bytes(), &parsed)).To(Succeed())
		Expect(parsed["msg"]).To(Equal("structured"))
		Expect(parsed["seed"]).To(BeNumerically("==", 3))
	})
})

var _ = Describe("Nop", func() {
	It("does not panic", func() {
		l := logging.Nop()
		Expect(func() {
			l.Info("msg")
			l.Error("msg")
			l.With("k", "v").Warn("msg")
		}).NotTo(Panic())
	})
})
