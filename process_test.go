package fitness

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessDemoPackets(t *testing.T) {
	outcomes := Process(DemoPackets())
	require.Len(t, outcomes, 3)

	want := []InfoMessage{
		{TrainingType: "Swimming", Duration: 1, Distance: 0.9936, Speed: 1.25, Calories: 376},
		{TrainingType: "Running", Duration: 1, Distance: 9.75, Speed: 9.75, Calories: 699.75},
		{TrainingType: "SportsWalking", Duration: 1, Distance: 5.85, Speed: 5.85, Calories: 157.5},
	}
	for i, o := range outcomes {
		require.NoError(t, o.Err)
		require.NotNil(t, o.Report)
		assert.Equal(t, i, o.Index)
		assert.Equal(t, want[i].TrainingType, o.Report.TrainingType)
		assert.InDelta(t, want[i].Duration, o.Report.Duration, eps)
		assert.InDelta(t, want[i].Distance, o.Report.Distance, eps)
		assert.InDelta(t, want[i].Speed, o.Report.Speed, eps)
		assert.InDelta(t, want[i].Calories, o.Report.Calories, eps)
	}
}

func TestProcessSkipsRejectedPackets(t *testing.T) {
	packets := []Packet{
		NewPacket(CodeWalking, 9000, 1, 75, 10),
		NewPacket(CodeRunning, 15000, 1, 75),
		{Code: Code("BIK"), Data: anys(1, 2, 3)},
		NewPacket(CodeRunning, 15000, 1),
	}
	outcomes := Process(packets)
	require.Len(t, outcomes, 4)

	assert.ErrorIs(t, outcomes[0].Err, ErrHeightRange)
	assert.Nil(t, outcomes[0].Report)
	assert.NoError(t, outcomes[1].Err)
	assert.ErrorIs(t, outcomes[2].Err, ErrUnknownActivity)
	assert.ErrorIs(t, outcomes[3].Err, ErrFieldCount)

	require.NotNil(t, outcomes[1].Report)
	assert.Equal(t, "Running", outcomes[1].Report.TrainingType)
	for _, i := range []int{0, 2, 3} {
		assert.Nil(t, outcomes[i].Report, "outcome %d", i)
	}
}

func TestProcessPacketRejectsShortHeightWalk(t *testing.T) {
	report, err := ProcessPacket(NewPacket(CodeWalking, 9000, 1, 75, 10))
	assert.ErrorIs(t, err, ErrHeightRange)
	assert.Equal(t, InfoMessage{}, report)
}

func TestInfoMessageFormatting(t *testing.T) {
	report, err := ProcessPacket(NewPacket(CodeSwimming, 720, 1, 80, 25, 50))
	require.NoError(t, err)

	assert.Equal(t,
		"Training type: Swimming; Duration: 1.000 h; Distance: 0.994 km; Mean speed: 1.250 km/h; Calories burned: 376.000.",
		report.Message(),
	)
}

func TestBuildSummary(t *testing.T) {
	var reports []InfoMessage
	for _, o := range Process(DemoPackets()) {
		require.NoError(t, o.Err)
		reports = append(reports, *o.Report)
	}
	summary := BuildSummary(reports)
	lines := strings.Split(strings.TrimSpace(summary), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Training type: Running;"))
	assert.Contains(t, lines[2], "Calories burned: 157.500.")
	assert.Empty(t, BuildSummary(nil))
}
