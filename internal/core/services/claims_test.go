package services

import (
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimedNameSet_SequentialSuffixes(t *testing.T) {
	set := NewClaimedNameSet("/out", nil)

	first, s1 := set.Resolve("Report", ".pdf", "/in/a.pdf")
	second, s2 := set.Resolve("Report", ".pdf", "/in/b.pdf")
	third, s3 := set.Resolve("Report", ".pdf", "/in/c.pdf")

	assert.Equal(t, "Report.pdf", first)
	assert.Equal(t, "Report (1).pdf", second)
	assert.Equal(t, "Report (2).pdf", third)
	assert.Equal(t, []int{0, 1, 2}, []int{s1, s2, s3})
	assert.Equal(t, 3, set.Len())
}

func TestClaimedNameSet_ExistingFileOnDisk(t *testing.T) {
	set := NewClaimedNameSet("/out", []string{"Invoice #2024-001.pdf"})

	name, suffix := set.Resolve("Invoice #2024-001", ".pdf", "/out/invoice_final.pdf")

	assert.Equal(t, "Invoice #2024-001 (1).pdf", name)
	assert.Equal(t, 1, suffix)
}

func TestClaimedNameSet_CaseInsensitive(t *testing.T) {
	set := NewClaimedNameSet("/out", []string{"report.PDF"})

	name, _ := set.Resolve("Report", ".pdf", "/in/a.pdf")

	assert.Equal(t, "Report (1).pdf", name)
	assert.True(t, set.IsClaimed("REPORT (1).PDF"))
}

func TestClaimedNameSet_OwnerKeepsOwnName(t *testing.T) {
	dir := "/docs"
	set := NewClaimedNameSet(dir, []string{"Report.pdf", "Other.pdf"})

	name, suffix := set.Resolve("Report", ".pdf", filepath.Join(dir, "Report.pdf"))

	assert.Equal(t, "Report.pdf", name)
	assert.Zero(t, suffix)

	// Once claimed by the owner, another document still gets a suffix.
	name, suffix = set.Resolve("Report", ".pdf", filepath.Join(dir, "x.pdf"))
	assert.Equal(t, "Report (1).pdf", name)
	assert.Equal(t, 1, suffix)
}

func TestClaimedNameSet_OwnerKeepsOwnSuffixedName(t *testing.T) {
	dir := "/docs"
	set := NewClaimedNameSet(dir, []string{"Report.pdf", "Report (1).pdf"})

	name, suffix := set.Resolve("Report", ".pdf", filepath.Join(dir, "Report (1).pdf"))

	assert.Equal(t, "Report (1).pdf", name)
	assert.Equal(t, 1, suffix)
}

func TestClaimedNameSet_OwnerKeepsSuffixBelowCounter(t *testing.T) {
	dir := "/docs"
	set := NewClaimedNameSet(dir, []string{"Report.pdf", "Report (1).pdf", "a.pdf"})

	tests := []struct {
		owner      string
		wantName   string
		wantSuffix int
	}{
		{"Report.pdf", "Report.pdf", 0},
		{"a.pdf", "Report (2).pdf", 2},
		{"Report (1).pdf", "Report (1).pdf", 1},
		{"b.pdf", "Report (3).pdf", 3},
	}
	for _, tt := range tests {
		name, suffix := set.Resolve("Report", ".pdf", filepath.Join(dir, tt.owner))
		assert.Equal(t, tt.wantName, name, tt.owner)
		assert.Equal(t, tt.wantSuffix, suffix, tt.owner)
	}
}

func TestClaimedNameSet_SuffixedNameOfOtherStemIgnored(t *testing.T) {
	dir := "/docs"
	set := NewClaimedNameSet(dir, []string{"Report.pdf", "Memo (1).pdf", "Report (01).pdf"})

	memo, _ := set.Resolve("Report", ".pdf", filepath.Join(dir, "Memo (1).pdf"))
	padded, _ := set.Resolve("Report", ".pdf", filepath.Join(dir, "Report (01).pdf"))

	assert.Equal(t, "Report (1).pdf", memo)
	assert.Equal(t, "Report (2).pdf", padded)
}

func TestClaimedNameSet_SkipsClaimedSuffixes(t *testing.T) {
	set := NewClaimedNameSet("/out", []string{"Report.pdf", "Report (1).pdf", "Report (3).pdf"})

	a, _ := set.Resolve("Report", ".pdf", "/in/a.pdf")
	b, _ := set.Resolve("Report", ".pdf", "/in/b.pdf")

	assert.Equal(t, "Report (2).pdf", a)
	assert.Equal(t, "Report (4).pdf", b)
}

func TestClaimedNameSet_Idempotent(t *testing.T) {
	set := NewClaimedNameSet("/out", []string{"Report.pdf"})
	_, _ = set.Resolve("Report", ".pdf", "/in/a.pdf")

	c1 := set.Clone()
	c2 := set.Clone()
	n1, s1 := c1.Resolve("Report", ".pdf", "/in/b.pdf")
	n2, s2 := c2.Resolve("Report", ".pdf", "/in/b.pdf")

	assert.Equal(t, n1, n2)
	assert.Equal(t, s1, s2)
	// The original is untouched by its clones.
	assert.False(t, set.IsClaimed(n1))
}

func TestClaimedNameSet_Monotonic(t *testing.T) {
	set := NewClaimedNameSet("/out", nil)

	last := -1
	for i := 0; i < 20; i++ {
		_, suffix := set.Resolve("Report", ".pdf", fmt.Sprintf("/in/%d.pdf", i))
		assert.Greater(t, suffix, last)
		last = suffix
	}
}

func TestClaimedNameSet_ConcurrentResolveIsUnique(t *testing.T) {
	set := NewClaimedNameSet("/out", nil)

	const workers = 32
	names := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names[i], _ = set.Resolve("Report", ".pdf", fmt.Sprintf("/in/%d.pdf", i))
		}()
	}
	wg.Wait()

	seen := make(map[string]bool)
	for _, n := range names {
		require.False(t, seen[n], "duplicate name %s", n)
		seen[n] = true
	}
	assert.Len(t, seen, workers)
}

func TestClaimLedger_SeedsEachDirectoryOnce(t *testing.T) {
	fs := newMemFS()
	fs.write("/a/Report.pdf", "x")
	ledger := newClaimLedger(fs)

	first := ledger.For("/a")
	fs.write("/a/Later.pdf", "y")
	second := ledger.For("/a/")

	assert.Same(t, first, second)
	assert.True(t, second.IsClaimed("Report.pdf"))
	assert.False(t, second.IsClaimed("Later.pdf"))
	assert.Equal(t, "/a", first.Dir())

	other := ledger.For("/b")
	assert.NotSame(t, first, other)
	assert.Zero(t, other.Len())
}
