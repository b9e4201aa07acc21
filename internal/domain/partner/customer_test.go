package partner

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sprayshop/backend/internal/domain/shared"
)

func TestNewCustomer(t *testing.T) {
	tests := []struct {
		name         string
		customerName string
		email        string
		phone        string
		wantErr      bool
		errCode      string
	}{
		{
			name:         "valid customer with all fields",
			customerName: "Kwame Mensah",
			email:        "kwame@example.com",
			phone:        "+233 24 123 4567",
			wantErr:      false,
		},
		{
			name:         "valid customer with name only",
			customerName: "Ama Owusu",
			wantErr:      false,
		},
		{
			name:         "empty name",
			customerName: "",
			wantErr:      true,
			errCode:      "INVALID_NAME",
		},
		{
			name:         "whitespace-only name",
			customerName: "   ",
			wantErr:      true,
			errCode:      "INVALID_NAME",
		},
		{
			name:         "invalid email",
			customerName: "Kwame Mensah",
			email:        "not-an-email",
			wantErr:      true,
			errCode:      "INVALID_EMAIL",
		},
		{
			name:         "invalid phone",
			customerName: "Kwame Mensah",
			phone:        "call me maybe",
			wantErr:      true,
			errCode:      "INVALID_PHONE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCustomer(tt.customerName, tt.email, tt.phone)
			if tt.wantErr {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.errCode, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.customerName, c.Name)
			assert.True(t, c.TotalSpent.IsZero())
			assert.Nil(t, c.LastVisit)
			assert.Len(t, c.GetDomainEvents(), 1)
		})
	}
}

func TestCustomer_Update(t *testing.T) {
	c, err := NewCustomer("Kwame Mensah", "", "")
	require.NoError(t, err)
	c.ClearDomainEvents()

	require.NoError(t, c.Update("Kwame A. Mensah", "kwame@example.com", "0241234567"))
	assert.Equal(t, "Kwame A. Mensah", c.Name)
	assert.Equal(t, "kwame@example.com", c.Email)
	assert.Equal(t, 2, c.GetVersion())
	assert.Len(t, c.GetDomainEvents(), 1)

	assert.Error(t, c.Update("", "", ""))
}

func TestCustomer_RecordSpend(t *testing.T) {
	c, err := NewCustomer("Ama Owusu", "", "")
	require.NoError(t, err)

	first := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	require.NoError(t, c.RecordSpend(decimal.NewFromFloat(200), first))
	assert.Equal(t, "200.00", c.TotalSpent.StringFixed(2))
	require.NotNil(t, c.LastVisit)
	assert.True(t, c.LastVisit.Equal(first))

	second := first.AddDate(0, 1, 0)
	require.NoError(t, c.RecordSpend(decimal.NewFromFloat(350.50), second))
	assert.Equal(t, "550.50", c.TotalSpent.StringFixed(2))
	assert.True(t, c.LastVisit.Equal(second))
}

func TestCustomer_RecordSpend_KeepsLatestVisit(t *testing.T) {
	c, err := NewCustomer("Ama Owusu", "", "")
	require.NoError(t, err)

	recent := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	require.NoError(t, c.RecordSpend(decimal.NewFromFloat(100), recent))

	// a backdated payment must not move the last visit backwards
	older := recent.AddDate(0, -2, 0)
	require.NoError(t, c.RecordSpend(decimal.NewFromFloat(50), older))
	assert.True(t, c.LastVisit.Equal(recent))
	assert.Equal(t, "150.00", c.TotalSpent.StringFixed(2))
}

func TestCustomer_RecordSpend_RejectsNonPositive(t *testing.T) {
	c, err := NewCustomer("Ama Owusu", "", "")
	require.NoError(t, err)

	assert.Error(t, c.RecordSpend(decimal.Zero, time.Now()))
	assert.Error(t, c.RecordSpend(decimal.NewFromFloat(-10), time.Now()))
	assert.True(t, c.TotalSpent.IsZero())
}
