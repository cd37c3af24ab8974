package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"earnshare-backend/internal/cart"
	"earnshare-backend/internal/domain"
)

func TestAddItemSyncFailureStillReturnsView(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	customizations := new(mockCustomizationRepo)
	svc := NewCartService(carts, products, customizations)

	products.On("GetByID", mock.Anything, testShirt.ID).Return(&testShirt, nil)
	carts.On("Get", mock.Anything, "buyer-1").Return(cart.Cart{}, nil)
	products.On("Snapshot", mock.Anything, mock.Anything).
		Return(map[int64]domain.Product{testShirt.ID: testShirt}, nil)
	carts.On("Save", mock.Anything, "buyer-1", mock.Anything).
		Return(errors.New("database down"))

	view, err := svc.AddItem(context.Background(), "buyer-1", AddItemInput{
		ProductID: testShirt.ID, Size: "M",
	})

	// The client keeps its updated state even when the server copy lags.
	assert.Error(t, err)
	require.NotNil(t, view)
	assert.Equal(t, int32(1), view.Cart.Count())
	assert.Equal(t, 30.0, view.Totals.PurchaseSubtotal)
}

func TestAddItemCreatesCustomizationRecord(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	customizations := new(mockCustomizationRepo)
	svc := NewCartService(carts, products, customizations)

	mug := domain.Product{ID: 3, Name: "Mug", Price: 15, IsCustomizable: true}
	products.On("GetByID", mock.Anything, mug.ID).Return(&mug, nil)

	var created *domain.Customization
	customizations.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Customization) }).Return(nil)
	carts.On("Get", mock.Anything, "buyer-1").Return(cart.Cart{}, nil)
	products.On("Snapshot", mock.Anything, mock.Anything).
		Return(map[int64]domain.Product{mug.ID: mug}, nil)
	carts.On("Save", mock.Anything, "buyer-1", mock.Anything).Return(nil)

	view, err := svc.AddItem(context.Background(), "buyer-1", AddItemInput{
		ProductID: mug.ID, Size: "std", CustomizationText: "engrave this",
	})

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "engrave this", created.Text)
	assert.Equal(t, "buyer-1", created.UserID)

	key := cart.CustomKey("std", created.ID)
	assert.Equal(t, int32(1), view.Cart[mug.ID][key].Quantity)
}

func TestAddItemSyncFailureRemovesOrphanedCustomization(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	customizations := new(mockCustomizationRepo)
	svc := NewCartService(carts, products, customizations)

	mug := domain.Product{ID: 3, Name: "Mug", Price: 15, IsCustomizable: true}
	products.On("GetByID", mock.Anything, mug.ID).Return(&mug, nil)

	var created *domain.Customization
	customizations.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { created = args.Get(1).(*domain.Customization) }).Return(nil)
	carts.On("Get", mock.Anything, "buyer-1").Return(cart.Cart{}, nil)
	products.On("Snapshot", mock.Anything, mock.Anything).
		Return(map[int64]domain.Product{mug.ID: mug}, nil)
	carts.On("Save", mock.Anything, "buyer-1", mock.Anything).
		Return(errors.New("database down"))
	customizations.On("Delete", mock.Anything, mock.Anything).Return(nil)

	view, err := svc.AddItem(context.Background(), "buyer-1", AddItemInput{
		ProductID: mug.ID, Size: "std", CustomizationText: "engrave this",
	})

	// An unsaved custom line would dangle on a missing record, so the
	// record goes and the failure is surfaced outright.
	assert.Error(t, err)
	assert.Nil(t, view)
	require.NotNil(t, created)
	customizations.AssertCalled(t, "Delete", mock.Anything, created.ID)
}

func TestAddItemRentalComputesPricing(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	svc := NewCartService(carts, products, new(mockCustomizationRepo))

	products.On("GetByID", mock.Anything, testGown.ID).Return(&testGown, nil)
	carts.On("Get", mock.Anything, "buyer-1").Return(cart.Cart{}, nil)
	products.On("Snapshot", mock.Anything, mock.Anything).
		Return(map[int64]domain.Product{testGown.ID: testGown}, nil)
	carts.On("Save", mock.Anything, "buyer-1", mock.Anything).Return(nil)

	start := frozenNow
	end := frozenNow.AddDate(0, 0, 4)
	view, err := svc.AddItem(context.Background(), "buyer-1", AddItemInput{
		ProductID: testGown.ID, RentStart: &start, RentEnd: &end,
	})

	require.NoError(t, err)
	assert.Equal(t, 100.0, view.Totals.RentSubtotal)
	assert.Equal(t, 100.0, view.Totals.DepositTotal)
	assert.Equal(t, 100.0, view.Totals.DueTodaySubtotal)
}

func TestAddItemRentalWithoutDates(t *testing.T) {
	carts := new(mockCartRepo)
	products := new(mockProductRepo)
	svc := NewCartService(carts, products, new(mockCustomizationRepo))

	products.On("GetByID", mock.Anything, testGown.ID).Return(&testGown, nil)

	_, err := svc.AddItem(context.Background(), "buyer-1", AddItemInput{ProductID: testGown.ID})

	assert.ErrorIs(t, err, cart.ErrRentDatesMissing)
}
