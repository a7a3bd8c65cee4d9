package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/awashgames/gamehub-services/internal/comm"
	"github.com/awashgames/gamehub-services/internal/gamesvc/models"
	"github.com/awashgames/gamehub-services/internal/gamesvc/session"
	"github.com/awashgames/gamehub-services/internal/gamesvc/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPlayer(id int64, name string, coins, rolls int64) *models.Player {
	return &models.Player{
		PlayerId:   id,
		PlayerName: name,
		DeviceId:   name,
		Coins:      coins,
		Rolls:      rolls,
	}
}

func newResourceService(players ...*models.Player) (*ResourceService, *store.MemoryStore) {
	st := store.NewMemoryStore(players...)
	return NewResourceService(st, session.NewLockRegistry()), st
}

func balances(t *testing.T, st *store.MemoryStore, id int64) (coins, rolls int64) {
	t.Helper()
	p, err := st.GetByID(context.Background(), id)
	require.NoError(t, err)
	return p.Coins, p.Rolls
}

func TestUpdateResourcesCreditsCoins(t *testing.T) {
	svc, st := newResourceService(testPlayer(1, "Carson", 100, 0))

	resp := svc.UpdateResources(context.Background(), 1, "coins", 50)

	require.Equal(t, comm.StatusSuccess, resp.Status)
	assert.Equal(t, "coins", resp.ResourceType)
	assert.Equal(t, int64(150), resp.Balance)

	coins, _ := balances(t, st, 1)
	assert.Equal(t, int64(150), coins)
}

func TestUpdateResourcesDebitsRolls(t *testing.T) {
	svc, st := newResourceService(testPlayer(1, "Carson", 100, 10))

	resp := svc.UpdateResources(context.Background(), 1, "rolls", -4)

	require.Equal(t, comm.StatusSuccess, resp.Status)
	assert.Equal(t, int64(6), resp.Balance)

	coins, rolls := balances(t, st, 1)
	assert.Equal(t, int64(100), coins)
	assert.Equal(t, int64(6), rolls)
}

func TestUpdateResourcesRejectsNegativeBalance(t *testing.T) {
	svc, st := newResourceService(testPlayer(1, "Carson", 100, 0))

	resp := svc.UpdateResources(context.Background(), 1, "coins", -150)

	require.Equal(t, comm.StatusError, resp.Status)
	assert.Equal(t, "insufficient coins", resp.Error)
	// the would-be negative balance is reported for display
	assert.Equal(t, int64(-50), resp.Balance)

	coins, _ := balances(t, st, 1)
	assert.Equal(t, int64(100), coins, "store must be left unmodified")
}

func TestUpdateResourcesRejectsNegativeRolls(t *testing.T) {
	svc, st := newResourceService(testPlayer(1, "Carson", 100, 3))

	resp := svc.UpdateResources(context.Background(), 1, "rolls", -10)

	require.Equal(t, comm.StatusError, resp.Status)
	assert.Equal(t, "insufficient rolls", resp.Error)
	assert.Equal(t, int64(-7), resp.Balance)

	coins, rolls := balances(t, st, 1)
	assert.Equal(t, int64(100), coins)
	assert.Equal(t, int64(3), rolls, "store must be left unmodified")
}

func TestUpdateResourcesUnknownResourceType(t *testing.T) {
	svc, st := newResourceService(testPlayer(1, "Carson", 100, 0))

	resp := svc.UpdateResources(context.Background(), 1, "gems", 10)

	require.Equal(t, comm.StatusError, resp.Status)
	assert.Equal(t, "unknown resource type", resp.Error)

	coins, _ := balances(t, st, 1)
	assert.Equal(t, int64(100), coins)
}

func TestConcurrentUpdatesLoseNoIncrements(t *testing.T) {
	svc, st := newResourceService(testPlayer(1, "Carson", 0, 0))

	const goroutines = 100
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := svc.UpdateResources(context.Background(), 1, "coins", 1)
			assert.Equal(t, comm.StatusSuccess, resp.Status)
		}()
	}
	wg.Wait()

	coins, _ := balances(t, st, 1)
	assert.Equal(t, int64(goroutines), coins)
}

func TestConcurrentDebitsNeverGoNegative(t *testing.T) {
	svc, st := newResourceService(testPlayer(1, "Carson", 50, 0))

	const attempts = 100
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp := svc.UpdateResources(context.Background(), 1, "coins", -1)
			if resp.Status == comm.StatusSuccess {
				assert.GreaterOrEqual(t, resp.Balance, int64(0))
			}
		}()
	}
	wg.Wait()

	// 100 unit debits against 50 coins: exactly 50 succeed
	coins, _ := balances(t, st, 1)
	assert.Equal(t, int64(0), coins)
}

func TestSendGiftMovesCoins(t *testing.T) {
	svc, st := newResourceService(
		testPlayer(1, "Carson", 100, 0),
		testPlayer(2, "Meredith", 50, 0),
	)

	resp := svc.SendGift(context.Background(), 1, 2, "coins", 50)

	require.Equal(t, comm.StatusSuccess, resp.Status)
	assert.Equal(t, "coins", resp.ResourceType)
	assert.Equal(t, int64(50), resp.ResourceValue)
	assert.Equal(t, int64(100), resp.Balance, "recipient's new balance")
	assert.Equal(t, "Carson", resp.Sender)

	senderCoins, _ := balances(t, st, 1)
	recipientCoins, _ := balances(t, st, 2)
	assert.Equal(t, int64(50), senderCoins)
	assert.Equal(t, int64(100), recipientCoins)
}

func TestSendGiftMovesRolls(t *testing.T) {
	svc, st := newResourceService(
		testPlayer(1, "Carson", 100, 8),
		testPlayer(2, "Meredith", 50, 1),
	)

	resp := svc.SendGift(context.Background(), 1, 2, "rolls", 5)

	require.Equal(t, comm.StatusSuccess, resp.Status)
	assert.Equal(t, "rolls", resp.ResourceType)
	assert.Equal(t, int64(5), resp.ResourceValue)
	assert.Equal(t, int64(6), resp.Balance, "recipient's new balance")

	senderCoins, senderRolls := balances(t, st, 1)
	recipientCoins, recipientRolls := balances(t, st, 2)
	assert.Equal(t, int64(3), senderRolls)
	assert.Equal(t, int64(6), recipientRolls)
	// coins stay where they were
	assert.Equal(t, int64(100), senderCoins)
	assert.Equal(t, int64(50), recipientCoins)
}

func TestSendGiftInsufficientRolls(t *testing.T) {
	svc, st := newResourceService(
		testPlayer(1, "Carson", 100, 2),
		testPlayer(2, "Meredith", 50, 0),
	)

	resp := svc.SendGift(context.Background(), 1, 2, "rolls", 3)

	require.Equal(t, comm.StatusError, resp.Status)
	assert.Equal(t, "insufficient rolls", resp.Error)

	_, senderRolls := balances(t, st, 1)
	_, recipientRolls := balances(t, st, 2)
	assert.Equal(t, int64(2), senderRolls)
	assert.Equal(t, int64(0), recipientRolls)
}

func TestSendGiftInsufficientLeavesBothUntouched(t *testing.T) {
	svc, st := newResourceService(
		testPlayer(1, "Carson", 50, 0),
		testPlayer(2, "Meredith", 100, 0),
	)

	resp := svc.SendGift(context.Background(), 1, 2, "coins", 200)

	require.Equal(t, comm.StatusError, resp.Status)
	assert.Equal(t, "insufficient coins", resp.Error)

	senderCoins, _ := balances(t, st, 1)
	recipientCoins, _ := balances(t, st, 2)
	assert.Equal(t, int64(50), senderCoins)
	assert.Equal(t, int64(100), recipientCoins)
}

func TestSendGiftToSelf(t *testing.T) {
	svc, st := newResourceService(testPlayer(1, "Carson", 100, 0))

	resp := svc.SendGift(context.Background(), 1, 1, "coins", 10)

	require.Equal(t, comm.StatusError, resp.Status)
	assert.Equal(t, "can't gift to yourself", resp.Error)

	coins, _ := balances(t, st, 1)
	assert.Equal(t, int64(100), coins)
}

func TestSendGiftNonPositiveAmount(t *testing.T) {
	svc, _ := newResourceService(
		testPlayer(1, "Carson", 100, 0),
		testPlayer(2, "Meredith", 50, 0),
	)

	for _, amount := range []int64{0, -5} {
		resp := svc.SendGift(context.Background(), 1, 2, "coins", amount)
		require.Equal(t, comm.StatusError, resp.Status)
		assert.Equal(t, "can't gift a non-positive amount", resp.Error)
	}
}

func TestSendGiftRecipientNotFound(t *testing.T) {
	svc, _ := newResourceService(testPlayer(1, "Carson", 100, 0))

	resp := svc.SendGift(context.Background(), 1, 99, "coins", 10)

	require.Equal(t, comm.StatusError, resp.Status)
	assert.Equal(t, "recipient not found", resp.Error)
}

func TestSendGiftUnknownResourceType(t *testing.T) {
	svc, _ := newResourceService(
		testPlayer(1, "Carson", 100, 0),
		testPlayer(2, "Meredith", 50, 0),
	)

	resp := svc.SendGift(context.Background(), 1, 2, "gems", 10)

	require.Equal(t, comm.StatusError, resp.Status)
	assert.Equal(t, "unknown resource type", resp.Error)
}

func TestOppositeGiftsDoNotDeadlock(t *testing.T) {
	st := store.NewMemoryStore(
		testPlayer(1, "Carson", 1000, 0),
		testPlayer(2, "Meredith", 1000, 0),
	)
	// widen the critical section so both directions overlap while the
	// locks are held
	st.ReadDelay = 2 * time.Millisecond
	svc := NewResourceService(st, session.NewLockRegistry())

	const rounds = 20
	done := make(chan struct{})
	go func() {
		defer close(done)
		var wg sync.WaitGroup
		for _, pair := range [][2]int64{{1, 2}, {2, 1}} {
			wg.Add(1)
			go func(senderId, recipientId int64) {
				defer wg.Done()
				for i := 0; i < rounds; i++ {
					resp := svc.SendGift(context.Background(), senderId, recipientId, "coins", 10)
					assert.Equal(t, comm.StatusSuccess, resp.Status)
				}
			}(pair[0], pair[1])
		}
		wg.Wait()
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("opposite-direction gifts deadlocked")
	}

	coins1, _ := balances(t, st, 1)
	coins2, _ := balances(t, st, 2)
	assert.Equal(t, int64(2000), coins1+coins2, "gifts must conserve the total")
}

func TestConcurrentGiftsConserveTotal(t *testing.T) {
	st := store.NewMemoryStore(
		testPlayer(1, "Carson", 300, 0),
		testPlayer(2, "Meredith", 300, 0),
		testPlayer(3, "Arturo", 300, 0),
	)
	svc := NewResourceService(st, session.NewLockRegistry())

	pairs := [][2]int64{{1, 2}, {2, 3}, {3, 1}, {2, 1}, {3, 2}, {1, 3}}
	var wg sync.WaitGroup
	for _, pair := range pairs {
		wg.Add(1)
		go func(senderId, recipientId int64) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				svc.SendGift(context.Background(), senderId, recipientId, "coins", 3)
			}
		}(pair[0], pair[1])
	}
	wg.Wait()

	var total int64
	for _, id := range []int64{1, 2, 3} {
		coins, _ := balances(t, st, id)
		assert.GreaterOrEqual(t, coins, int64(0))
		total += coins
	}
	assert.Equal(t, int64(900), total)
}
