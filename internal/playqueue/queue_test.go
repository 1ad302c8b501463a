package playqueue

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/jukebox/internal/events"
	"github.com/llehouerou/jukebox/internal/player"
	"github.com/llehouerou/jukebox/internal/worker"
)

func TestPush_ReplacesQueueAndLaunchesFirst(t *testing.T) {
	f := newFixture(t, Modes{})

	f.push(t, false, "a1", "a2", "a3")

	assert.Equal(t, []string{"a1", "a2", "a3"}, f.queueNames())
	assert.Equal(t, 0, f.q.Index())
	assert.Equal(t, []string{"a1"}, f.played())
	assert.Empty(t, f.q.Planned())
	assert.False(t, f.q.IsStopped())
	checkInvariants(t, f.q)
}

func TestPush_AppendWhilePlayingDoesNotRelaunch(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1")

	f.push(t, true, "a2", "b1")

	assert.Equal(t, []string{"a1", "a2", "b1"}, f.queueNames())
	assert.Equal(t, []string{"a1"}, f.played())
}

func TestPush_AppendWhenIdleLaunches(t *testing.T) {
	f := newFixture(t, Modes{})

	f.push(t, true, "a1")

	assert.Equal(t, []string{"a1"}, f.played())
}

func TestPush_NotAppendingStopsAndClears(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1", "a2")

	f.push(t, false, "b1")

	assert.Equal(t, []string{"b1"}, f.queueNames())
	assert.Equal(t, []string{"a1", "b1"}, f.played())
	assert.Contains(t, f.player.StopCalls(), false)
}

func TestPush_Empty(t *testing.T) {
	f := newFixture(t, Modes{})

	require.NoError(t, f.q.Push(context.Background(), nil, false))

	assert.Equal(t, 1, f.bus.count(events.EmptySelection))
	assert.Empty(t, f.played())
	assert.Equal(t, 1, f.bus.count(events.QueueRefreshed))
}

func TestPush_RepeatPropagation(t *testing.T) {
	t.Run("repeat mode repeats every pushed item", func(t *testing.T) {
		f := newFixture(t, Modes{Repeat: true})
		f.push(t, false, "a1", "a2")
		assert.Equal(t, []string{"a1*", "a2*"}, f.queueNames())
	})

	t.Run("forced repeat after non-repeated tail is dropped", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1")
		f.push(t, true, "a2*")
		assert.Equal(t, []string{"a1", "a2"}, f.queueNames())
	})

	t.Run("forced repeat on empty queue is kept", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1*", "a2")
		assert.Equal(t, []string{"a1*", "a2"}, f.queueNames())
	})

	t.Run("repeat mode stops repeating after a non-repeated tail", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1")
		f.q.SetRepeat(false)
		f.q.mu.Lock()
		f.q.modes.Repeat = true
		f.q.mu.Unlock()
		f.push(t, true, "a2")
		assert.Equal(t, []string{"a1", "a2"}, f.queueNames())
		checkInvariants(t, f.q)
	})
}

func TestPush_UnmountedDevice(t *testing.T) {
	t.Run("mount keeps the items and asks once per device", func(t *testing.T) {
		prompter := &fakePrompter{choice: MountYes}
		f := newFixture(t, Modes{}, WithPrompter(prompter), WithMounter(&fakeMounter{}))

		f.push(t, false, "u1", "u2")

		assert.Equal(t, []string{"usb"}, prompter.devices)
		assert.Equal(t, []string{"u1", "u2"}, f.queueNames())
		assert.Equal(t, []string{"u1"}, f.played())
	})

	t.Run("mount failure aborts the push", func(t *testing.T) {
		prompter := &fakePrompter{choice: MountYes}
		f := newFixture(t, Modes{}, WithPrompter(prompter), WithMounter(&fakeMounter{err: errBoom}))

		err := f.q.Push(context.Background(), f.items("a1", "u1"), false)

		require.ErrorIs(t, err, ErrDeviceUnavailable)
		assert.Empty(t, f.queueNames())
		assert.Empty(t, f.played())
		assert.Equal(t, 1, f.bus.count(events.QueueRefreshed))
	})

	t.Run("skip drops every unmounted item", func(t *testing.T) {
		prompter := &fakePrompter{choice: MountSkip}
		f := newFixture(t, Modes{}, WithPrompter(prompter))

		f.push(t, false, "a1", "u1", "u2", "b1")

		assert.Len(t, prompter.devices, 1)
		assert.Equal(t, []string{"a1", "b1"}, f.queueNames())
	})

	t.Run("abort cancels the whole push", func(t *testing.T) {
		prompter := &fakePrompter{choice: MountAbort}
		f := newFixture(t, Modes{}, WithPrompter(prompter))
		f.push(t, false, "c1")

		err := f.q.Push(context.Background(), f.items("a1", "u1"), false)

		require.ErrorIs(t, err, ErrPushAborted)
		assert.Equal(t, []string{"c1"}, f.queueNames())
	})

	t.Run("prompt error aborts the push", func(t *testing.T) {
		prompter := &fakePrompter{err: context.Canceled}
		f := newFixture(t, Modes{}, WithPrompter(prompter))

		err := f.q.Push(context.Background(), f.items("u1"), false)

		require.ErrorIs(t, err, context.Canceled)
		assert.Empty(t, f.queueNames())
	})

	t.Run("without prompter unmounted items are skipped", func(t *testing.T) {
		f := newFixture(t, Modes{})

		f.push(t, false, "a1", "u1")

		assert.Equal(t, []string{"a1"}, f.queueNames())
	})
}

func TestPushAsync_RunsOnPool(t *testing.T) {
	pool := worker.New(1, zerolog.Nop())
	f := newFixture(t, Modes{}, WithPool(pool))

	require.NoError(t, f.q.PushAsync(f.items("a1", "a2"), false))
	require.NoError(t, pool.Close(context.Background()))

	assert.Equal(t, []string{"a1", "a2"}, f.queueNames())
	assert.Equal(t, []string{"a1"}, f.played())
}

func TestLaunch_PublishesAndRecords(t *testing.T) {
	f := newFixture(t, Modes{})

	f.push(t, false, "a1")

	e, ok := f.bus.last(events.FileLaunched)
	require.True(t, ok)
	assert.Equal(t, "a1", e.Attrs[events.AttrFileID])
	assert.Equal(t, launchTime.UnixMilli(), e.Attrs[events.AttrDate])
	assert.Equal(t, 1, f.bus.count(events.PlayerPlay))

	last, ok := f.q.LastPlayed()
	require.True(t, ok)
	assert.Equal(t, "a1", last.File.ID)
	assert.Equal(t, int64(1), f.lib.files["a1"].Hits())
	assert.Equal(t, int64(1), f.lib.files["a1"].SessionHits())
	assert.Equal(t, []string{"a1"}, f.rec.launches)
	assert.Equal(t, []bool{true}, f.rec.wasPlaying)
}

func TestLaunch_CoverEvents(t *testing.T) {
	t.Run("refresh only on directory change", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1", "a2", "b1")
		assert.Equal(t, 1, f.bus.count(events.CoverRefresh))

		f.q.Finished()
		assert.Equal(t, 1, f.bus.count(events.CoverRefresh))
		assert.Equal(t, 0, f.bus.count(events.CoverChange))

		f.q.Finished()
		assert.Equal(t, 2, f.bus.count(events.CoverRefresh))
	})

	t.Run("change on each track with cover shuffle", func(t *testing.T) {
		f := newFixture(t, Modes{CoverShuffle: true, CoverChangeEachTrack: true})
		f.push(t, false, "a1", "a2")

		f.q.Finished()

		assert.Equal(t, 1, f.bus.count(events.CoverRefresh))
		assert.Equal(t, 1, f.bus.count(events.CoverChange))
	})
}

func TestLaunch_StartPosition(t *testing.T) {
	t.Run("resume applies to the first launch only", func(t *testing.T) {
		f := newFixture(t, Modes{ResumePosition: true}, WithResumePosition(0.4))
		f.push(t, false, "a1", "a2")
		f.q.Finished()

		calls := f.player.PlayCalls()
		require.Len(t, calls, 2)
		assert.InDelta(t, 0.4, calls[0].Start, 1e-9)
		assert.Zero(t, calls[1].Start)
	})

	t.Run("intro plays a clip from the intro start", func(t *testing.T) {
		f := newFixture(t, Modes{
			Intro: true, IntroBegin: 20, IntroLength: 15 * time.Second,
			ResumePosition: true,
		}, WithResumePosition(0.9))
		f.push(t, false, "a1")

		calls := f.player.PlayCalls()
		require.Len(t, calls, 1)
		assert.InDelta(t, 0.2, calls[0].Start, 1e-9)
		assert.Equal(t, 15*time.Second, calls[0].Clip)
	})

	t.Run("normal launch plays the whole track", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1")
		assert.Equal(t, player.PlayCall{Path: f.path("a1")}, f.player.PlayCalls()[0])
	})
}

func TestLaunch_FailureIsContained(t *testing.T) {
	f := newFixture(t, Modes{})
	f.player.SetPlayError(errBoom)

	f.push(t, false, "a1", "a2")

	assert.Equal(t, 1, f.bus.count(events.LaunchFailed))
	e, _ := f.bus.last(events.LaunchFailed)
	assert.Equal(t, "a1", e.Attrs[events.AttrFileID])
	assert.Equal(t, 0, f.bus.count(events.FileLaunched))
	_, ok := f.q.LastPlayed()
	assert.False(t, ok)
	assert.Equal(t, []string{"a1", "a2"}, f.queueNames())

	f.player.SetPlayError(nil)
	f.q.PlayNext()
	assert.Equal(t, []string{"a2"}, f.queueNames())
	assert.Equal(t, 1, f.bus.count(events.FileLaunched))
}

func TestFinished_RepeatedHeadWraps(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1*", "b1")

	f.q.Finished()

	assert.Equal(t, []string{"a1*", "b1"}, f.queueNames())
	assert.Equal(t, 0, f.q.Index())
	assert.Equal(t, []string{"a1", "a1"}, f.played())
}

func TestFinished_RepeatRunAdvances(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1*", "a2*", "a3")

	f.q.Finished()
	assert.Equal(t, 1, f.q.Index())
	f.q.Finished()
	assert.Equal(t, 0, f.q.Index())

	assert.Len(t, f.q.Queue(), 3)
	assert.Equal(t, []string{"a1", "a2", "a1"}, f.played())
}

func TestFinished_RemovesNonRepeatedHead(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1", "a2")

	f.q.Finished()

	assert.Equal(t, []string{"a2"}, f.queueNames())
	assert.Equal(t, []string{"a1", "a2"}, f.played())
}

func TestFinished_ContinueFromCollection(t *testing.T) {
	f := newFixture(t, Modes{Continue: true})
	f.push(t, false, "a3")

	f.q.Finished()

	assert.Equal(t, []string{"b1"}, f.queueNames())
	assert.Equal(t, 0, f.q.Index())
	assert.Equal(t, []string{"a3", "b1"}, f.played())
	assert.False(t, f.q.IsStopped())
}

func TestFinished_ContinueTakesPlannedAndKeepsTheRest(t *testing.T) {
	f := newFixture(t, Modes{Continue: true, VisiblePlanned: 2})
	f.push(t, false, "a3")
	require.Equal(t, []string{"b1", "b2"}, f.plannedNames())

	f.q.Finished()

	assert.Equal(t, []string{"b1"}, f.queueNames())
	assert.Equal(t, []string{"b2", "c1"}, f.plannedNames())
	checkInvariants(t, f.q)
}

func TestFinished_ContinueEndOfCollection(t *testing.T) {
	f := newFixture(t, Modes{Continue: true})
	f.push(t, false, "c1")

	f.q.Finished()

	assert.Empty(t, f.queueNames())
	assert.True(t, f.q.IsStopped())
	assert.Equal(t, 1, f.bus.count(events.Reset))
}

func TestFinished_NoContinueStops(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1")
	refreshes := f.bus.count(events.QueueRefreshed)

	f.q.Finished()

	assert.Empty(t, f.queueNames())
	assert.True(t, f.q.IsStopped())
	assert.Equal(t, 1, f.bus.count(events.Reset))
	assert.Equal(t, refreshes+1, f.bus.count(events.QueueRefreshed))
}

func TestFinished_EmptyQueueIsNoop(t *testing.T) {
	f := newFixture(t, Modes{Continue: true})

	f.q.Finished()

	assert.Empty(t, f.played())
	assert.False(t, f.q.IsStopped())
}

func TestPlayerFinish_StaleNotificationIgnored(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1", "a2")

	f.player.FireStaleFinished()
	assert.Equal(t, []string{"a1", "a2"}, f.queueNames())

	f.player.SimulateFinished()
	assert.Equal(t, []string{"a2"}, f.queueNames())
	assert.Equal(t, []string{"a1", "a2"}, f.played())
}

func TestStopRequest(t *testing.T) {
	f := newFixture(t, Modes{Continue: true, VisiblePlanned: 3})
	f.push(t, false, "a1", "a2")
	f.q.SetPlaylist("favorites")

	f.q.StopRequest()

	assert.Empty(t, f.queueNames())
	assert.Empty(t, f.plannedNames())
	assert.True(t, f.q.IsStopped())
	assert.Empty(t, f.q.Playlist())
	_, ok := f.q.LastPlayed()
	assert.False(t, ok)
	assert.Equal(t, 1, f.bus.count(events.PlayerStop))
	assert.Equal(t, 1, f.bus.count(events.Reset))
	stops := f.player.StopCalls()
	assert.True(t, stops[len(stops)-1], "stop request stops immediately")
	assert.Equal(t, []bool{true, false}, f.rec.wasPlaying)

	f.push(t, false, "b1")
	assert.False(t, f.q.IsStopped())
}

func TestShutdown_KeepsWasPlaying(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, false, "a1")

	f.q.Shutdown()

	assert.Equal(t, []bool{true}, f.rec.wasPlaying)
	assert.True(t, f.q.IsStopped())
}

func TestLaunchRadio(t *testing.T) {
	f := newFixture(t, Modes{})

	require.NoError(t, f.q.LaunchRadio(Radio{Name: "fip", URL: "http://radio/fip"}))

	assert.True(t, f.q.IsPlayingRadio())
	r, ok := f.q.CurrentRadio()
	require.True(t, ok)
	assert.Equal(t, "fip", r.Name)
	assert.Equal(t, []string{"http://radio/fip"}, f.player.StreamURLs())
	assert.Equal(t, 1, f.bus.count(events.RadioLaunched))
	assert.Equal(t, 1, f.bus.count(events.Reset))

	f.push(t, false, "a1")
	assert.False(t, f.q.IsPlayingRadio())
}

func TestLaunchRadio_Failure(t *testing.T) {
	f := newFixture(t, Modes{})
	f.player.SetStreamError(errBoom)

	err := f.q.LaunchRadio(Radio{Name: "fip", URL: "http://radio/fip"})

	require.ErrorIs(t, err, ErrPlaybackStart)
	assert.False(t, f.q.IsPlayingRadio())
	assert.Equal(t, 0, f.bus.count(events.RadioLaunched))
}

func TestRadioEnd_LeavesQueueAlone(t *testing.T) {
	f := newFixture(t, Modes{})
	f.push(t, true, "a1")
	require.NoError(t, f.q.LaunchRadio(Radio{Name: "fip", URL: "http://radio/fip"}))

	f.player.SimulateFinished()

	assert.False(t, f.q.IsPlayingRadio())
	assert.Equal(t, []string{"a1"}, f.queueNames())
}

func TestModes(t *testing.T) {
	t.Run("repeat applies to every item", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1", "a2")

		f.q.SetRepeat(true)

		assert.Equal(t, []string{"a1*", "a2*"}, f.queueNames())
		assert.True(t, f.q.ContainsOnlyRepeat())
		e, ok := f.bus.last(events.RepeatModeChanged)
		require.True(t, ok)
		assert.Equal(t, true, e.Attrs[events.AttrEnabled])

		f.q.SetRepeat(false)
		assert.False(t, f.q.ContainsRepeat())
	})

	t.Run("repeat off goes on from the playing item", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1*", "a2*", "a3*")
		f.q.Finished()
		require.Equal(t, 1, f.q.Index())

		f.q.SetRepeat(false)

		assert.Equal(t, []string{"a2", "a3", "a1"}, f.queueNames())
		assert.Equal(t, 0, f.q.Index())

		f.player.SimulateFinished()

		assert.Equal(t, []string{"a1", "a2", "a3"}, f.played())
		checkInvariants(t, f.q)
	})

	t.Run("continue off empties planned", func(t *testing.T) {
		f := newFixture(t, Modes{Continue: true, VisiblePlanned: 2})
		f.push(t, false, "a1")
		require.Len(t, f.q.Planned(), 2)

		f.q.SetContinue(false)

		assert.Empty(t, f.q.Planned())
	})

	t.Run("lowering visible planned truncates", func(t *testing.T) {
		f := newFixture(t, Modes{Continue: true, VisiblePlanned: 3})
		f.push(t, false, "a1")

		f.q.SetVisiblePlanned(1)

		assert.Equal(t, []string{"a2"}, f.plannedNames())
	})

	t.Run("shuffle planned from random files", func(t *testing.T) {
		f := newFixture(t, Modes{Continue: true, VisiblePlanned: 3})
		f.push(t, false, "a1")

		f.q.SetShuffle(true)

		assert.Len(t, f.q.Planned(), 3)
		checkInvariants(t, f.q)
	})

	t.Run("intro applies from next launch", func(t *testing.T) {
		f := newFixture(t, Modes{IntroBegin: 50, IntroLength: time.Second})
		f.push(t, false, "a1", "a2")

		f.q.SetIntro(true)
		f.q.Finished()

		calls := f.player.PlayCalls()
		assert.Zero(t, calls[0].Clip)
		assert.Equal(t, time.Second, calls[1].Clip)
		assert.True(t, f.q.Modes().Intro)
	})
}

func TestContainsOnlyRepeat_EmptyQueue(t *testing.T) {
	f := newFixture(t, Modes{})
	assert.True(t, f.q.ContainsOnlyRepeat())
	assert.False(t, f.q.ContainsRepeat())
}

func TestAccessors(t *testing.T) {
	f := newFixture(t, Modes{})
	_, ok := f.q.CurrentItem()
	assert.False(t, ok)
	assert.Nil(t, f.q.CurrentFile())

	f.push(t, false, "a1", "b1")

	cur, ok := f.q.CurrentItem()
	require.True(t, ok)
	assert.Equal(t, "a1", cur.File.ID)
	assert.Equal(t, f.lib.files["a1"], f.q.CurrentFile())
	tail, ok := f.q.Last()
	require.True(t, ok)
	assert.Equal(t, "b1", tail.File.ID)
	it, ok := f.q.Item(1)
	require.True(t, ok)
	assert.Equal(t, "b1", it.File.ID)
	_, ok = f.q.Item(2)
	assert.False(t, ok)
	assert.Equal(t, 2, f.q.Len())

	snap := f.q.Queue()
	snap[0].Repeat = true
	assert.False(t, f.q.ContainsRepeat(), "snapshots are copies")
}

func TestPlayNext_RefreshesOnce(t *testing.T) {
	t.Run("queued", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1", "a2")
		before := f.bus.count(events.QueueRefreshed)

		f.q.PlayNext()

		assert.Equal(t, before+1, f.bus.count(events.QueueRefreshed))
	})

	t.Run("next album", func(t *testing.T) {
		f := newFixture(t, Modes{})
		f.push(t, false, "a1", "a2", "b1")
		before := f.bus.count(events.QueueRefreshed)

		require.NoError(t, f.q.PlayNextAlbum())

		assert.Equal(t, []string{"a1", "b1"}, f.played())
		assert.Equal(t, before+1, f.bus.count(events.QueueRefreshed))
	})

	t.Run("empty queue", func(t *testing.T) {
		f := newFixture(t, Modes{})
		before := f.bus.count(events.QueueRefreshed)

		f.q.PlayNext()

		assert.Equal(t, before+1, f.bus.count(events.QueueRefreshed))
	})
}
