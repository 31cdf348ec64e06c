package cec_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gocec/gocec/bf"
	"github.com/gocec/gocec/cec"
	"github.com/gocec/gocec/fraig"
	"github.com/gocec/gocec/solver"
)

func TestCEC(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "CEC Suite")
}

const adderSpec = `
name: adder-spec
inputs: [a, b, cin]
outputs:
  - name: sum
    expr: a xor b xor cin
  - name: cout
    expr: a & b | cin & (a xor b)
`

const adderImpl = `
name: adder-impl
inputs: [cin, a, b]
outputs:
  - name: cout
    expr: (a | b) & (a | cin) & (b | cin)
  - name: sum
    expr: (a = b) = cin
`

const adderBuggy = `
name: adder-buggy
inputs: [x, y, z]
outputs:
  - name: s
    expr: x xor y xor z
  - name: c
    expr: x & y | z
`

func mustLoad(desc string) *cec.Network {
	net, err := cec.LoadNetwork(strings.NewReader(desc))
	Expect(err).NotTo(HaveOccurred())
	return net
}

var _ = Describe("LoadNetwork", func() {
	It("should parse inputs and outputs", func() {
		net := mustLoad(adderSpec)
		Expect(net.Name).To(Equal("adder-spec"))
		Expect(net.Inputs).To(Equal([]string{"a", "b", "cin"}))
		Expect(net.Outputs).To(HaveLen(2))
		Expect(net.Outputs[0].Name).To(Equal("sum"))
		Expect(bf.Vars(net.Outputs[1].Expr)).To(ConsistOf("a", "b", "cin"))
	})

	DescribeTable("should reject invalid networks",
		func(desc string, msg string) {
			_, err := cec.LoadNetwork(strings.NewReader(desc))
			Expect(err).To(MatchError(ContainSubstring(msg)))
		},
		Entry("unknown input", "inputs: [a]\noutputs:\n  - name: o\n    expr: a & b\n", `unknown input "b"`),
		Entry("duplicate input", "inputs: [a, a]\n", `duplicate input "a"`),
		Entry("duplicate output", "inputs: [a]\noutputs:\n  - name: o\n    expr: a\n  - name: o\n    expr: ^a\n", `duplicate output "o"`),
		Entry("syntax error", "inputs: [a]\noutputs:\n  - name: o\n    expr: a &\n", `output "o"`),
		Entry("unknown key", "inputs: [a]\nwires: [w]\n", "invalid network description"),
	)
})

var _ = Describe("CheckCEQ", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	It("should prove equivalent networks matched by name", func() {
		results, err := cec.CheckCEQ(ctx, mustLoad(adderSpec), mustLoad(adderImpl), nil, nil, fraig.Config{})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(Equal([]cec.Result{
			{Output1: "sum", Output2: "sum", Status: solver.True},
			{Output1: "cout", Output2: "cout", Status: solver.True},
		}))
		Expect(cec.Equivalent(results)).To(BeTrue())
	})

	It("should find differences with explicit correspondences", func() {
		inputs := map[string]string{"a": "x", "b": "y", "cin": "z"}
		outputs := map[string]string{"sum": "s", "cout": "c"}
		results, err := cec.CheckCEQ(ctx, mustLoad(adderSpec), mustLoad(adderBuggy), inputs, outputs, fraig.Config{SatBackend: fraig.BackendGini})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(2))
		Expect(results[0].Status).To(Equal(solver.True))
		Expect(results[1].Status).To(Equal(solver.False))
		Expect(results[1].String()).To(Equal("cout / c: not equivalent"))
		Expect(cec.Equivalent(results)).To(BeFalse())
	})

	It("should treat unmatched inputs as free", func() {
		inputs := map[string]string{"a": "x", "b": "y"}
		outputs := map[string]string{"sum": "s"}
		results, err := cec.CheckCEQ(ctx, mustLoad(adderSpec), mustLoad(adderBuggy), inputs, outputs, fraig.Config{})
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(ConsistOf(cec.Result{Output1: "sum", Output2: "s", Status: solver.False}))
	})

	It("should record the SAT session when asked to", func() {
		var buf bytes.Buffer
		cfg := fraig.Config{SatBackend: fraig.BackendSatlog, SatLog: &buf}
		_, err := cec.CheckCEQ(ctx, mustLoad(adderSpec), mustLoad(adderImpl), nil, nil, cfg)
		Expect(err).NotTo(HaveOccurred())
		stats, err := solver.Replay(&buf, solver.New())
		Expect(err).NotTo(HaveOccurred())
		Expect(stats.NbVars).To(BeNumerically(">", 6))
	})

	It("should reject unknown correspondences", func() {
		_, err := cec.CheckCEQ(ctx, mustLoad(adderSpec), mustLoad(adderBuggy), map[string]string{"a": "w"}, nil, fraig.Config{})
		Expect(err).To(MatchError(ContainSubstring(`no input "w"`)))
		_, err = cec.CheckCEQ(ctx, mustLoad(adderSpec), mustLoad(adderBuggy), nil, map[string]string{"carry": "c"}, fraig.Config{})
		Expect(err).To(MatchError(ContainSubstring(`no output "carry"`)))
		_, err = cec.CheckCEQ(ctx, mustLoad(adderSpec), mustLoad(adderBuggy), nil, map[string]string{"sum": "t"}, fraig.Config{})
		Expect(err).To(MatchError(ContainSubstring(`no output "t"`)))
	})

	It("should stop when the context is canceled", func() {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := cec.CheckCEQ(canceled, mustLoad(adderSpec), mustLoad(adderImpl), nil, nil, fraig.Config{})
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Checker", func() {
	It("should share its manager between comparisons", func() {
		c, err := cec.NewChecker(fraig.Config{})
		Expect(err).NotTo(HaveOccurred())
		defer c.Close()
		spec, impl := mustLoad(adderSpec), mustLoad(adderImpl)
		_, err = c.Check(context.Background(), spec, impl, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		results, err := c.Check(context.Background(), impl, spec, nil, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(cec.Equivalent(results)).To(BeTrue())
		Expect(results[0].Output1).To(Equal("cout"))
		Expect(c.Mgr().InputNum()).To(Equal(6))
	})
})
