package session

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/iwvelando/mortgage-buddy/internal/scenario"
	"github.com/iwvelando/mortgage-buddy/pkg/datetime"
	"github.com/iwvelando/mortgage-buddy/pkg/loans"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultYears, c.YearsLeft)
	assert.Equal(t, DefaultYears, c.SavingsYears(0))
}

func TestSavingsYears(t *testing.T) {
	c := Context{YearsLeft: 18}
	assert.Equal(t, 18, c.SavingsYears(0))
	assert.Equal(t, 18, c.SavingsYears(-3))
	assert.Equal(t, 5, c.SavingsYears(5))
	assert.Equal(t, DefaultYears, Context{}.SavingsYears(0))
}

func TestRecordComparison(t *testing.T) {
	loan := loans.LoanParameters{
		AnnualRatePercent: 3.5,
		TermYears:         20,
		StartingBalance:   200000,
		StartDate:         datetime.MustParseTime("2006-01-02", "2025-01-01"),
	}
	mods := scenario.Modifiers{
		ExtraMonthlyPayment:      250,
		LumpSum:                  5000,
		RevisedAnnualRatePercent: 4.5,
		RevisedRateEffectiveDate: datetime.MustParseTime("2006-01-02", "2027-04-01"),
	}

	cmp, err := scenario.NewComparer(zap.NewNop()).Compare(loan, mods)
	require.NoError(t, err)

	c := New()
	c.RecordComparison(loan, cmp)

	assert.Equal(t, 20, c.YearsLeft)
	assert.Equal(t, cmp.Baseline.TotalInterestPaid, c.BaselineTotalInterest)
	assert.Equal(t, cmp.Modified.TotalPrincipalPaid, c.ModifiedTotalPrincipal)
	assert.Equal(t, cmp.Modified.FinalMonthlyPayment, c.ModifiedMonthlyPayment)
	assert.Equal(t, "2044-12", c.BaselineEndDate)
	assert.Equal(t, datetime.FormatPeriod(cmp.ModifiedEndDate), c.ModifiedEndDate)
	assert.Equal(t, 250.0, c.AdditionalRepayment)
	assert.Equal(t, 5000.0, c.LumpSum)
	assert.Equal(t, 4.5, c.NewRate)
	assert.Equal(t, "2027-04", c.NewRateDate)
}

func TestRecordComparisonWithoutRateChange(t *testing.T) {
	c := New()
	c.RecordComparison(loans.LoanParameters{TermYears: 0}, scenario.Comparison{})

	assert.Equal(t, DefaultYears, c.YearsLeft)
	assert.Empty(t, c.NewRateDate)
	assert.Empty(t, c.BaselineEndDate)
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	c, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, New(), c)

	c.YearsLeft = 12
	c.LumpSum = 1000
	require.NoError(t, store.Save(ctx, "abc", c))

	loaded, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, c, loaded)

	other, err := store.Load(ctx, "other")
	require.NoError(t, err)
	assert.Equal(t, DefaultYears, other.YearsLeft)

	_, err = store.Load(ctx, "")
	assert.ErrorIs(t, err, ErrMissingID)
	assert.ErrorIs(t, store.Save(ctx, "", c), ErrMissingID)
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("session-%d", i%4)
			_ = store.Save(ctx, id, Context{YearsLeft: i})
			_, _ = store.Load(ctx, id)
		}(i)
	}
	wg.Wait()

	for i := 0; i < 4; i++ {
		c, err := store.Load(ctx, fmt.Sprintf("session-%d", i))
		require.NoError(t, err)
		assert.Equal(t, i, c.YearsLeft%4)
	}
}

func TestRedisStoreMissingID(t *testing.T) {
	store := NewRedisStore("127.0.0.1:0", time.Minute)
	defer func() { _ = store.Close() }()

	_, err := store.Load(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingID)
	assert.ErrorIs(t, store.Save(context.Background(), "", New()), ErrMissingID)
	assert.Equal(t, "mortgage-buddy:session:abc", store.key("abc"))
}

func TestRedisStoreUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	store := NewRedisStoreFromClient(client, time.Minute)
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := store.Load(ctx, "abc")
	assert.Error(t, err)
	assert.Error(t, store.Save(ctx, "abc", New()))
}

// TestRedisStoreRoundTrip needs a running server; set
// MORTGAGE_BUDDY_TEST_REDIS_ADDR to enable it.
func TestRedisStoreRoundTrip(t *testing.T) {
	addr := os.Getenv("MORTGAGE_BUDDY_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("MORTGAGE_BUDDY_TEST_REDIS_ADDR not set")
	}

	ctx := context.Background()
	store := NewRedisStore(addr, time.Minute)
	defer func() { _ = store.Close() }()
	require.NoError(t, store.Ping(ctx))

	id := fmt.Sprintf("test-%d", time.Now().UnixNano())
	c, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, New(), c)

	c.YearsLeft = 9
	c.NewRate = 4.1
	c.NewRateDate = "2028-02"
	require.NoError(t, store.Save(ctx, id, c))

	loaded, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}
