package progress

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTracker_StartThenSettle(t *testing.T) {
	t.Parallel()

	var tr Tracker
	require.Equal(t, StateIdle, tr.State())

	tr.Start("/news")
	require.Equal(t, StateRunning, tr.State())
	require.Equal(t, "/news", tr.Current())

	tr.Settle()
	require.Equal(t, StateIdle, tr.State())
}

// Новый переход до оседания предыдущего держит индикатор в Running:
// гаснет он только после оседания всех начатых переходов.
func TestTracker_OverlappingNavigations(t *testing.T) {
	t.Parallel()

	var tr Tracker

	tr.Start("/news")
	tr.Start("/products")
	require.Equal(t, StateRunning, tr.State())
	require.Equal(t, "/products", tr.Current())

	tr.Settle()
	require.Equal(t, StateRunning, tr.State())

	tr.Settle()
	require.Equal(t, StateIdle, tr.State())
}

func TestTracker_SettleWithoutStartIsNoop(t *testing.T) {
	t.Parallel()

	var tr Tracker
	tr.Settle()
	require.Equal(t, StateIdle, tr.State())

	// Баланс не уходит в минус: следующий Start/Settle работает как обычно.
	tr.Start("/contact")
	tr.Settle()
	require.Equal(t, StateIdle, tr.State())
}
