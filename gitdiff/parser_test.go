package gitdiff_test

import (
	"strings"
	"testing"

	"github.com/fwojciec/mergeguard"
	"github.com/fwojciec/mergeguard/gitdiff"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse_EmptyInput(t *testing.T) {
	t.Parallel()

	p := gitdiff.NewParser()

	diff, err := p.Parse(strings.NewReader(""))

	require.NoError(t, err)
	assert.Empty(t, diff.Files)
}

func TestParser_Parse_ModifiedFile(t *testing.T) {
	t.Parallel()

	input := `diff --git a/config.yaml b/config.yaml
index 1234567..abcdefg 100644
--- a/config.yaml
+++ b/config.yaml
@@ -1,3 +1,4 @@ server:
 server:
-  port: 80
+  port: 8080
+  host: 0.0.0.0
 debug: false
`

	p := gitdiff.NewParser()

	diff, err := p.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, diff.Files, 1)

	f := diff.Files[0]
	// go-gitdiff strips a/ and b/ prefixes
	assert.Equal(t, "config.yaml", f.OldPath)
	assert.Equal(t, "config.yaml", f.NewPath)
	assert.Equal(t, mergeguard.FileModified, f.Operation)
	assert.Zero(t, f.Similarity)

	require.Len(t, f.Hunks, 1)
	h := f.Hunks[0]
	assert.Equal(t, 1, h.OldStart)
	assert.Equal(t, 3, h.OldCount)
	assert.Equal(t, 1, h.NewStart)
	assert.Equal(t, 4, h.NewCount)
	assert.Equal(t, "server:", h.Section)

	require.Len(t, h.Lines, 5)
	assert.Equal(t, mergeguard.LineContext, h.Lines[0].Type)

	assert.Equal(t, mergeguard.LineDeleted, h.Lines[1].Type)
	assert.Equal(t, "  port: 80\n", h.Lines[1].Content)

	assert.Equal(t, mergeguard.LineAdded, h.Lines[2].Type)

	assert.Equal(t, mergeguard.LineAdded, h.Lines[3].Type)

	assert.Equal(t, mergeguard.LineContext, h.Lines[4].Type)

	added, deleted := f.Stats()
	assert.Equal(t, 2, added)
	assert.Equal(t, 1, deleted)
}

func TestParser_Parse_AddedAndDeletedFiles(t *testing.T) {
	t.Parallel()

	input := `diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..1234567
--- /dev/null
+++ b/new.txt
@@ -0,0 +1,2 @@
+one
+two
diff --git a/old.txt b/old.txt
deleted file mode 100644
index 1234567..0000000
--- a/old.txt
+++ /dev/null
@@ -1 +0,0 @@
-gone
`

	p := gitdiff.NewParser()

	diff, err := p.Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, diff.Files, 2)

	added := diff.Files[0]
	assert.Empty(t, added.OldPath)
	assert.Equal(t, "new.txt", added.NewPath)
	assert.Equal(t, mergeguard.FileAdded, added.Operation)
	for _, line := range added.Hunks[0].Lines {
		assert.Equal(t, mergeguard.LineAdded, line.Type)
	}

	deleted := diff.Files[1]
	assert.Equal(t, "old.txt", deleted.OldPath)
	assert.Empty(t, deleted.NewPath)
	assert.Equal(t, mergeguard.FileDeleted, deleted.Operation)
}

func TestParser_Parse_RenamedFile(t *testing.T) {
	t.Parallel()

	t.Run("pure rename", func(t *testing.T) {
		t.Parallel()

		input := `diff --git a/docs/setup.md b/guides/setup.md
similarity index 100%
rename from docs/setup.md
rename to guides/setup.md
`

		diff, err := gitdiff.NewParser().Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diff.Files, 1)

		f := diff.Files[0]
		assert.Equal(t, "docs/setup.md", f.OldPath)
		assert.Equal(t, "guides/setup.md", f.NewPath)
		assert.Equal(t, mergeguard.FileRenamed, f.Operation)
		assert.InDelta(t, 1.0, f.Similarity, 0.0001)
		assert.Empty(t, f.Hunks)
	})

	t.Run("rename with edits", func(t *testing.T) {
		t.Parallel()

		input := `diff --git a/a.txt b/b.txt
similarity index 87%
rename from a.txt
rename to b.txt
index 1234567..abcdefg 100644
--- a/a.txt
+++ b/b.txt
@@ -1,2 +1,2 @@
 keep
-before
+after
`

		diff, err := gitdiff.NewParser().Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, diff.Files, 1)

		f := diff.Files[0]
		assert.Equal(t, mergeguard.FileRenamed, f.Operation)
		assert.InDelta(t, 0.87, f.Similarity, 0.0001)
		require.Len(t, f.Hunks, 1)
		assert.Len(t, f.Hunks[0].Lines, 3)
	})
}

func TestParser_Parse_CopiedFile(t *testing.T) {
	t.Parallel()

	input := `diff --git a/original.go b/copy.go
similarity index 95%
copy from original.go
copy to copy.go
`

	diff, err := gitdiff.NewParser().Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, diff.Files, 1)

	f := diff.Files[0]
	assert.Equal(t, "original.go", f.OldPath)
	assert.Equal(t, "copy.go", f.NewPath)
	assert.Equal(t, mergeguard.FileCopied, f.Operation)
	assert.InDelta(t, 0.95, f.Similarity, 0.0001)
}

func TestParser_Parse_BinaryModification(t *testing.T) {
	t.Parallel()

	input := `diff --git a/logo.png b/logo.png
index 1234567..89abcde 100644
Binary files a/logo.png and b/logo.png differ
`

	diff, err := gitdiff.NewParser().Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, diff.Files, 1)

	f := diff.Files[0]
	assert.Equal(t, "logo.png", f.OldPath)
	assert.Equal(t, "logo.png", f.NewPath)
	assert.Equal(t, mergeguard.FileModified, f.Operation)
	assert.True(t, f.IsBinary)
	assert.Empty(t, f.Hunks)
}

func TestParser_Parse_NoNewlineAtEOF(t *testing.T) {
	t.Parallel()

	input := `diff --git a/file.txt b/file.txt
index 1234567..abcdefg 100644
--- a/file.txt
+++ b/file.txt
@@ -1 +1 @@
-old
\ No newline at end of file
+new
\ No newline at end of file
`

	diff, err := gitdiff.NewParser().Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, diff.Files, 1)
	require.Len(t, diff.Files[0].Hunks, 1)

	h := diff.Files[0].Hunks[0]
	require.Len(t, h.Lines, 2)
	assert.True(t, h.Lines[0].NoNewline)
	assert.True(t, h.Lines[1].NoNewline)
}

func TestParser_Parse_MalformedInput(t *testing.T) {
	t.Parallel()

	input := `diff --git a/file.go
@@ -1,1 +1,1 @@ incomplete header
`

	diff, err := gitdiff.NewParser().Parse(strings.NewReader(input))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse diff")
	assert.Nil(t, diff)
}

func TestParser_Parse_ModeChange(t *testing.T) {
	t.Parallel()

	input := `diff --git a/script.sh b/script.sh
old mode 100644
new mode 100755
`

	diff, err := gitdiff.NewParser().Parse(strings.NewReader(input))

	require.NoError(t, err)
	require.Len(t, diff.Files, 1)

	f := diff.Files[0]
	assert.Equal(t, "script.sh", f.NewPath)
	assert.Equal(t, mergeguard.FileModified, f.Operation)
	assert.NotEqual(t, f.OldMode, f.NewMode)
	assert.Empty(t, f.Hunks)
}
