package addons_test

import (
	"errors"
	"os"
	"path/filepath"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"vmasm/pkg/addons"
	"vmasm/pkg/asm"
)

var _ = Describe("Comments", func() {
	It("should strip comments and keep blank lines", func() {
		src := "set8 0u8:8 1u8 # one\n# whole line\n  add8 0u8:8 2u8\t#"
		Expect(addons.StripComments(src)).To(Equal("set8 0u8:8 1u8\n\nadd8 0u8:8 2u8"))
	})

	It("should keep line numbers", func() {
		lines, err := addons.Comments.Apply(asm.SplitLines("# header\nset8 0u8:8 1u8"))
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(Equal([]asm.Line{
			{No: 1, Text: ""},
			{No: 2, Text: "set8 0u8:8 1u8"},
		}))
	})
})

var _ = Describe("Chain", func() {
	var (
		mockCtrl *gomock.Controller
		first    *MockAddon
		second   *MockAddon
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		first = NewMockAddon(mockCtrl)
		second = NewMockAddon(mockCtrl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should feed each addon the output of the previous one", func() {
		in := []asm.Line{{No: 1, Text: "a"}}
		mid := []asm.Line{{No: 1, Text: "b"}}
		out := []asm.Line{{No: 1, Text: "c"}}

		gomock.InOrder(
			first.EXPECT().Apply(in).Return(mid, nil),
			second.EXPECT().Apply(mid).Return(out, nil),
		)
		first.EXPECT().Name().Return("first").AnyTimes()
		second.EXPECT().Name().Return("second").AnyTimes()

		got, err := addons.Chain(in, first, second)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(out))
	})

	It("should stop at the first failing addon", func() {
		boom := errors.New("boom")
		first.EXPECT().Apply(gomock.Any()).Return(nil, boom)

		_, err := addons.Chain(asm.SplitLines("x"), first, second)
		Expect(err).To(MatchError(boom))
	})

	It("should return the input untouched for an empty chain", func() {
		in := asm.SplitLines("set8 0u8:8 1u8")
		got, err := addons.Chain(in)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(in))
	})
})

var _ = Describe("Compile", func() {
	It("should assemble commented source with labels", func() {
		src := `# count up
LOOP:8:
add8 0u8:8 1u8   # increment
jmp8 ~LOOP:8 0u8
`
		mc, err := addons.Compile(src, addons.Default()...)
		Expect(err).NotTo(HaveOccurred())
		Expect(mc.ByteSize()).To(Equal(10))
		Expect(mc.SourceMap()).To(Equal(map[int]int{0: 3, 5: 4}))

		jmp := mc.Bytes()[5:]
		Expect(jmp[3]).To(Equal(byte(0)), "LOOP resolves to address 0")
	})

	It("should report errors against the original line", func() {
		_, err := addons.Compile("# c\n\nadd8 0u8:8 1u8\nadd8 0u8 1u8 # no reach", addons.Default()...)
		Expect(errors.Is(err, asm.ErrMissingReach)).To(BeTrue())

		var asmErr *asm.Error
		Expect(errors.As(err, &asmErr)).To(BeTrue())
		Expect(asmErr.Line).To(Equal(4))
	})

	It("should treat a commented-out reference as absent", func() {
		_, err := addons.Compile("set8 0u8:8 1u8 # ~MISSING", addons.Default()...)
		Expect(err).NotTo(HaveOccurred())
	})
})

var _ = Describe("Lua", func() {
	It("should run transform over the source", func() {
		a := addons.Lua("macro", `
function transform(src)
  return (string.gsub(src, "inc8 (%S+)", "add8 %1 1u8"))
end`)
		mc, err := addons.Compile("# bump\ninc8 0u8:8", addons.Comments, a, addons.Labels)
		Expect(err).NotTo(HaveOccurred())
		Expect(mc.ByteSize()).To(Equal(5))
		Expect(a.Name()).To(Equal("macro"))
	})

	It("should fail when transform is missing", func() {
		_, err := addons.Lua("empty", "x = 1").Apply(asm.SplitLines("a"))
		Expect(err).To(MatchError(ContainSubstring("does not define transform")))
	})

	It("should fail when transform returns something else", func() {
		_, err := addons.Lua("num", "function transform(src) return 1 end").Apply(asm.SplitLines("a"))
		Expect(err).To(MatchError(ContainSubstring("want string")))
	})

	It("should report script errors", func() {
		_, err := addons.Lua("bad", "function transform(src) error('nope') end").Apply(asm.SplitLines("a"))
		Expect(err).To(MatchError(ContainSubstring("nope")))
	})
})

var _ = Describe("Build", func() {
	It("should look up built-ins in order", func() {
		chain, err := addons.Build([]string{"labels", "comments"}, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(chain).To(HaveLen(2))
		Expect(chain[0].Name()).To(Equal("labels"))
		Expect(chain[1].Name()).To(Equal("comments"))
	})

	It("should reject unknown names", func() {
		_, err := addons.Build([]string{"macros"}, nil)
		Expect(err).To(MatchError(ContainSubstring(`unknown addon "macros"`)))
	})

	It("should require scripts for lua", func() {
		_, err := addons.Build([]string{"lua"}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("should load one addon per script", func() {
		dir, err := os.MkdirTemp("", "addons")
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(os.RemoveAll, dir)
		path := filepath.Join(dir, "id.lua")
		Expect(os.WriteFile(path, []byte("function transform(s) return s end"), 0o644)).To(Succeed())

		chain, err := addons.Build([]string{"comments", "lua", "labels"}, []string{path, path})
		Expect(err).NotTo(HaveOccurred())
		Expect(chain).To(HaveLen(4))
		Expect(chain[1].Name()).To(Equal("lua:id.lua"))
	})

	It("should wrap missing script errors", func() {
		_, err := addons.Build([]string{"lua"}, []string{"/nonexistent/x.lua"})
		Expect(err).To(MatchError(ContainSubstring("read addon script")))
	})
})

var _ = Describe("Assemble", func() {
	It("should refer to the input lines when nothing renumbers", func() {
		src := "# c\nA:8:\nset8 ~A:8 1u8"
		p, err := addons.Assemble(src, addons.Default()...)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Source).To(Equal(asm.SplitLines(src)))
		Expect(p.Code.SourceMap()).To(Equal(map[int]int{0: 3}))
	})

	It("should refer to the script output after a Lua addon", func() {
		prepend := addons.Lua("prepend", `
function transform(src)
  return "set8 0u8:8 7u8\n" .. src
end`)
		p, err := addons.Assemble("# c\nset8 0u8:8 1u8", addons.Comments, prepend, addons.Labels)
		Expect(err).NotTo(HaveOccurred())
		Expect(p.Source).To(Equal([]asm.Line{
			{No: 1, Text: "set8 0u8:8 7u8"},
			{No: 2, Text: ""},
			{No: 3, Text: "set8 0u8:8 1u8"},
		}))
		Expect(p.Code.SourceMap()).To(Equal(map[int]int{0: 1, 5: 3}))
	})

	It("should run comments then labels by default", func() {
		chain := addons.Default()
		Expect(chain).To(HaveLen(2))
		Expect(chain[0].Name()).To(Equal("comments"))
		Expect(chain[1].Name()).To(Equal("labels"))
		Expect(addons.Labels.Name()).To(Equal("labels"))
	})
})
