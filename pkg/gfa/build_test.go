package gfa

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mobinasri/gbwtgraph/pkg/graph"
	"github.com/mobinasri/gbwtgraph/pkg/pathindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGFA(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "test.gfa")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

const simpleGFA = "S\t1\tACGT\n" +
	"S\t2\tGGCC\n" +
	"S\t3\tTTAA\n" +
	"L\t1\t+\t2\t+\t*\n" +
	"L\t2\t+\t3\t+\t*\n" +
	"P\tchr1\t1+,2+,3+\t*\n"

func TestBuildSimpleGraph(t *testing.T) {
	path := writeGFA(t, simpleGFA)
	result, err := Build(path, BuildOptions{ApproximateNumJobs: 1})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Graph.NodeCount())
	assert.Equal(t, 1, result.Graph.PathCount())

	var deg int
	result.Graph.FollowEdges(graph.NewHandle(1, false), false, func(next graph.Handle) bool {
		deg++
		assert.Equal(t, graph.NewHandle(2, false), next, "edge from 1+ should go to 2+")
		return true
	})
	assert.Equal(t, 1, deg, "out-degree of 1+")
}

func TestBuildChopsLongSegments(t *testing.T) {
	gfa := "S\t1\tACGTACGTAC\n" // 10bp
	path := writeGFA(t, gfa)
	result, err := Build(path, BuildOptions{MaxNodeLength: 4, ApproximateNumJobs: 1})
	require.NoError(t, err)
	// 10bp chopped into chunks of at most 4bp => 3 nodes (4, 4, 2).
	require.Equal(t, 3, result.Graph.NodeCount())
	assert.Equal(t, 4, result.Graph.GetLength(graph.NewHandle(1, false)))
	assert.Equal(t, 2, result.Graph.GetLength(graph.NewHandle(3, false)))
}

func TestBuildRejectsUnsupportedOverlap(t *testing.T) {
	gfa := "S\t1\tACGT\n" +
		"S\t2\tGGCC\n" +
		"L\t1\t+\t2\t+\t5M\n"
	path := writeGFA(t, gfa)
	_, err := Build(path, BuildOptions{ApproximateNumJobs: 1})
	assert.Error(t, err, "expected error for an unsupported L-line overlap")
}

func TestBuildWLineForcesPLineToReference(t *testing.T) {
	gfa := "S\t1\tACGT\n" +
		"S\t2\tGGCC\n" +
		"L\t1\t+\t2\t+\t*\n" +
		"W\ts1\t0\tchr1\t0\t0\t>1>2\n" +
		"P\tchr1\t1+,2+\t*\n"
	path := writeGFA(t, gfa)
	result, err := Build(path, BuildOptions{ApproximateNumJobs: 1})
	require.NoError(t, err)
	require.Equal(t, 2, result.Graph.PathCount(), "one W-line, one P-line")

	var pLineMD pathindex.Metadata
	result.Graph.ForEachPath(func(p pathindex.PathHandle, md pathindex.Metadata) {
		if md.Sample != "s1" {
			pLineMD = md
		}
	})
	assert.True(t, pLineMD.IsReference(), "P-line coexisting with a W-line should become a reference path")
}

func TestBuildAssignsContigNames(t *testing.T) {
	path := writeGFA(t, simpleGFA)
	result, err := Build(path, BuildOptions{ApproximateNumJobs: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"chr1"}, result.ContigNames)
}

func TestBuildRejectsUnknownSegmentInLink(t *testing.T) {
	gfa := "S\t1\tACGT\n" +
		"L\t1\t+\t99\t+\t*\n"
	path := writeGFA(t, gfa)
	_, err := Build(path, BuildOptions{ApproximateNumJobs: 1})
	assert.Error(t, err, "expected error for an L-line referencing an unknown segment")
}
