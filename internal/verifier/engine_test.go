package verifier

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/ddverify/internal/dd"
	"github.com/roach88/ddverify/internal/table"
	"github.com/roach88/ddverify/internal/testutil"
)

// spyTable counts data accesses made through the Table interface.
type spyTable struct {
	Table
	lookups   int
	cellReads int
	distances int
}

func (s *spyTable) ColumnIndex(name string) (int, bool) {
	s.lookups++
	return s.Table.ColumnIndex(name)
}

func (s *spyTable) IsNull(idx, row int) bool {
	s.cellReads++
	return s.Table.IsNull(idx, row)
}

func (s *spyTable) IsEmpty(idx, row int) bool {
	s.cellReads++
	return s.Table.IsEmpty(idx, row)
}

func (s *spyTable) Distance(idx, a, b int) float64 {
	s.distances++
	return s.Table.Distance(idx, a, b)
}

func ageTable(t *testing.T) *table.Relation {
	return testutil.Relation(t, []string{"age"}, []string{"10"}, []string{"12"}, []string{"50"})
}

func newTestEngine(opts ...EngineOption) *Engine {
	base := []EngineOption{
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run-1")),
		WithClock(testutil.NewStepClock(time.Millisecond)),
	}
	return New(append(base, opts...)...)
}

func TestEngine_New(t *testing.T) {
	e := New()

	assert.Equal(t, 1, e.workers)
	assert.Nil(t, e.sink)
	assert.NotNil(t, e.logger)
	assert.IsType(t, UUIDv7Generator{}, e.runIDs)
}

func TestEngine_WithWorkersDefaultsToGOMAXPROCS(t *testing.T) {
	e := New(WithWorkers(0))

	assert.GreaterOrEqual(t, e.workers, 1)
}

func TestVerify_ScenarioA_Violation(t *testing.T) {
	report, err := newTestEngine().Verify(dd.MustParse("age [0;5] -> age [0;0]"), ageTable(t))
	require.NoError(t, err)

	assert.Equal(t, dd.Report{
		ErrorRate:      1.0,
		ViolatingPairs: 1,
		LhsPairs:       1,
		Holds:          false,
		Highlights:     []dd.Highlight{{Column: 0, Pair: dd.RowPair{First: 0, Second: 1}}},
	}, report)
}

func TestVerify_ScenarioB_NoLhsPairs(t *testing.T) {
	report, err := newTestEngine().Verify(dd.MustParse("age [100;200] -> age [0;0]"), ageTable(t))
	require.NoError(t, err)

	assert.Equal(t, 0, report.ViolatingPairs)
	assert.Equal(t, 0, report.LhsPairs)
	assert.Equal(t, 0.0, report.ErrorRate)
	assert.True(t, report.Holds)
	assert.Empty(t, report.Highlights)
}

func TestVerify_ScenarioC_InvalidConstraintTouchesNoData(t *testing.T) {
	spy := &spyTable{Table: ageTable(t)}

	_, err := newTestEngine().Verify(dd.MustParse("age [5;2] -> age [0;0]"), spy)

	assert.True(t, dd.IsInvalidConstraint(err))
	assert.Zero(t, spy.lookups)
	assert.Zero(t, spy.cellReads)
	assert.Zero(t, spy.distances)
}

func TestVerify_ScenarioD_MissingValue(t *testing.T) {
	rel := testutil.CSV(t, "age,salary\n10,NULL\n12,100\n50,300\n")

	report, err := newTestEngine().Verify(dd.MustParse("age [0;5] -> salary [0;10]"), rel)

	require.Error(t, err)
	assert.Equal(t, dd.Report{}, report)

	var ve *dd.VerificationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, dd.ErrCodeMissingValue, ve.Code)
	assert.Equal(t, "salary", ve.Column)
	assert.Equal(t, []int{0}, ve.Rows)
}

func TestVerify_UnknownColumn(t *testing.T) {
	_, err := newTestEngine().Verify(dd.MustParse("age [0;5] -> zip [0;0]"), ageTable(t))

	assert.True(t, dd.IsUnknownColumn(err))
}

func TestVerify_UnsupportedTypeCheckedBeforeScan(t *testing.T) {
	rel := testutil.CSV(t, "age,flag,notes\n10,true,a\n12,false,1\n")
	spy := &spyTable{Table: rel}

	_, err := newTestEngine().Verify(dd.MustParse("age [0;5] -> flag [0;0]"), spy)
	assert.True(t, dd.IsUnsupportedColumnType(err))
	assert.Contains(t, err.Error(), "flag")

	_, err = newTestEngine().Verify(dd.MustParse("notes [0;1] -> age [0;5]"), spy)
	assert.True(t, dd.IsUnsupportedColumnType(err))
	assert.Contains(t, err.Error(), "different types")

	assert.Zero(t, spy.cellReads)
	assert.Zero(t, spy.distances)
}

func TestVerify_ValidationOrder(t *testing.T) {
	rel := testutil.CSV(t, "flag\ntrue\nfalse\n")

	// Invalid bounds win over an unknown column, which wins over a bad type.
	_, err := newTestEngine().Verify(dd.MustParse("flag [0;1], nope [0;1] -> flag [3;1]"), rel)
	assert.True(t, dd.IsInvalidConstraint(err))

	_, err = newTestEngine().Verify(dd.MustParse("flag [0;1] -> nope [0;1]"), rel)
	assert.True(t, dd.IsUnknownColumn(err))

	_, err = newTestEngine().Verify(dd.MustParse("flag [0;1] -> flag [0;1]"), rel)
	assert.True(t, dd.IsUnsupportedColumnType(err))
}

func TestVerify_EmptySides(t *testing.T) {
	rel := testutil.CSV(t, "a\n1\n2\n4\n")

	report, err := newTestEngine().Verify(dd.MustParse(" -> a [0;1]"), rel)
	require.NoError(t, err)
	assert.Equal(t, 3, report.LhsPairs)
	assert.Equal(t, 2, report.ViolatingPairs)
	assert.InDelta(t, 2.0/3.0, report.ErrorRate, 1e-12)

	report, err = newTestEngine().Verify(dd.MustParse("a [0;1] -> "), rel)
	require.NoError(t, err)
	assert.Equal(t, 1, report.LhsPairs)
	assert.True(t, report.Holds)
}

func TestVerify_MultipleRhsViolations(t *testing.T) {
	rel := testutil.CSV(t, `dept,salary,title
1,1000,engineer
1,1500,engineer
1,1020,enginer
2,9000,manager
`)

	report, err := newTestEngine().Verify(dd.MustParse("dept [0;0] -> salary [0;100], title [0;0]"), rel)
	require.NoError(t, err)

	assert.Equal(t, 3, report.LhsPairs)
	assert.Equal(t, 3, report.ViolatingPairs)
	assert.Equal(t, []dd.Highlight{
		{Column: 1, Pair: dd.RowPair{First: 0, Second: 1}},
		{Column: 2, Pair: dd.RowPair{First: 0, Second: 2}},
		{Column: 1, Pair: dd.RowPair{First: 1, Second: 2}},
		{Column: 2, Pair: dd.RowPair{First: 1, Second: 2}},
	}, report.Highlights)
	assert.Len(t, report.HighlightedPairs(), report.ViolatingPairs)
}

// randomTable builds a table with clustered ints, doubles, dates and short
// strings so that every interval type produces both matches and misses.
func randomTable(t *testing.T, rows int, seed int64) *table.Relation {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	letters := []string{"ab", "abc", "abd", "bcd", "xyz", "xya"}

	var sb strings.Builder
	sb.WriteString("group,score,day,code\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "%d,%s,2024-01-%02d,%s\n",
			rng.Intn(6),
			strconv.FormatFloat(float64(rng.Intn(400))/4, 'f', -1, 64),
			1+rng.Intn(28),
			letters[rng.Intn(len(letters))],
		)
	}
	return testutil.CSV(t, sb.String())
}

func TestVerify_ParallelMatchesSequential(t *testing.T) {
	rel := randomTable(t, 120, 42)
	dds := []dd.DifferentialDependency{
		dd.MustParse("group [0;0] -> score [0;10]"),
		dd.MustParse("group [0;1], day [0;3] -> code [0;1], score [0;25]"),
		dd.MustParse("code [0;0] -> group [0;0], day [0;7]"),
		dd.MustParse(" -> group [0;2]"),
	}

	sequential := newTestEngine()
	for _, d := range dds {
		t.Run(d.String(), func(t *testing.T) {
			want, err := sequential.Verify(d, rel)
			require.NoError(t, err)

			for _, workers := range []int{2, 3, 7} {
				got, err := newTestEngine(WithWorkers(workers)).Verify(d, rel)
				require.NoError(t, err)
				assert.Equal(t, want, got, "workers=%d", workers)
				assert.Equal(t, want.Fingerprint(), got.Fingerprint())
			}
			assert.Len(t, want.HighlightedPairs(), want.ViolatingPairs)
			assert.Equal(t, want.ViolatingPairs == 0, want.Holds)
		})
	}
}

func TestVerify_ParallelErrorMatchesSequential(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("v,w\n")
	for i := 0; i < 80; i++ {
		switch i {
		case 17, 61:
			sb.WriteString("NULL,1\n")
		default:
			fmt.Fprintf(&sb, "%d,1\n", i%5)
		}
	}
	rel := testutil.CSV(t, sb.String())
	d := dd.MustParse("v [0;1] -> w [0;0]")

	_, want := newTestEngine().Verify(d, rel)
	require.Error(t, want)

	for attempt := 0; attempt < 10; attempt++ {
		_, got := newTestEngine(WithWorkers(4)).Verify(d, rel)
		assert.Equal(t, want, got)
	}
}

func TestVerify_Deterministic(t *testing.T) {
	rel := randomTable(t, 60, 7)
	d := dd.MustParse("group [0;0], code [0;1] -> score [0;5]")
	e := newTestEngine()

	first, err := e.Verify(d, rel)
	require.NoError(t, err)
	second, err := e.Verify(d, rel)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first.Fingerprint(), second.Fingerprint())
}

func TestVerify_LhsOrderDoesNotChangeReport(t *testing.T) {
	rel := randomTable(t, 50, 3)

	a, err := newTestEngine().Verify(dd.MustParse("group [0;1], day [0;4], code [0;1] -> score [0;20]"), rel)
	require.NoError(t, err)
	b, err := newTestEngine().Verify(dd.MustParse("code [0;1], group [0;1], day [0;4] -> score [0;20]"), rel)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestVerify_NotifiesSink(t *testing.T) {
	var got []Summary
	sink := SinkFunc(func(s Summary) { got = append(got, s) })
	d := dd.MustParse("age [0;5] -> age [0;0]")

	_, err := newTestEngine(WithSink(sink)).Verify(d, ageTable(t))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "run-1", got[0].RunID)
	assert.Equal(t, d, got[0].DD)
	assert.Equal(t, time.Millisecond, got[0].Elapsed)
	assert.Equal(t, []HighlightDetail{
		{Column: "age", First: 0, Second: 1, FirstValue: "10", SecondValue: "12"},
	}, got[0].Highlights)
}

func TestVerify_SinkNotNotifiedOnError(t *testing.T) {
	called := false
	sink := SinkFunc(func(Summary) { called = true })

	_, err := newTestEngine(WithSink(sink)).Verify(dd.MustParse("age [0;5] -> zip [0;0]"), ageTable(t))

	require.Error(t, err)
	assert.False(t, called)
}
