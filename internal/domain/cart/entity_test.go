package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(c int64) *int64 { return &c }

func assertUniqueBookIDs(t *testing.T, items []LineItem) {
	t.Helper()
	seen := make(map[string]bool, len(items))
	for _, it := range items {
		require.False(t, seen[it.BookID], "重复的BookID: %s", it.BookID)
		seen[it.BookID] = true
	}
}

func TestAddItem_NewAndDuplicate(t *testing.T) {
	items, err := AddItem(nil, Book{ID: "A", ListPriceCents: price(1999)})
	require.NoError(t, err)
	items, err = AddItem(items, Book{ID: "B", ListPriceCents: price(500)})
	require.NoError(t, err)
	items, err = AddItem(items, Book{ID: "A", ListPriceCents: price(2999)})
	require.NoError(t, err)

	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].BookID)
	assert.Equal(t, 2, items[0].Quantity)
	// 重复加入不会重新定价
	assert.Equal(t, int64(1999), items[0].UnitPriceCents)
	assert.Equal(t, "B", items[1].BookID)
}

func TestAddItem_NilPriceIsZero(t *testing.T) {
	items, err := AddItem(nil, Book{ID: "free"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), items[0].UnitPriceCents)
}

func TestAddItem_EmptyID(t *testing.T) {
	items := []LineItem{{BookID: "A", Quantity: 1}}
	out, err := AddItem(items, Book{})
	assert.ErrorIs(t, err, ErrEmptyBookID)
	assert.Equal(t, items, out)
}

func TestAddItem_DoesNotMutateInput(t *testing.T) {
	items := []LineItem{{BookID: "A", Quantity: 1}}
	_, err := AddItem(items, Book{ID: "A"})
	require.NoError(t, err)
	assert.Equal(t, 1, items[0].Quantity)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	items := []LineItem{{BookID: "A", Quantity: 1}, {BookID: "B", Quantity: 2}}
	once := RemoveItem(items, "A")
	twice := RemoveItem(once, "A")
	assert.Equal(t, once, twice)
	assert.Equal(t, []LineItem{{BookID: "B", Quantity: 2}}, twice)
}

func TestUpdateQuantity(t *testing.T) {
	items := []LineItem{{BookID: "A", Quantity: 1}, {BookID: "B", Quantity: 2}}

	out := UpdateQuantity(items, "B", 7)
	assert.Equal(t, 7, out[1].Quantity)

	// 不存在的图书不会被追加
	out = UpdateQuantity(items, "Z", 3)
	assert.Equal(t, items, out)

	for _, q := range []int{0, -5} {
		out = UpdateQuantity(items, "A", q)
		_, ok := Find(out, "A")
		assert.False(t, ok, "quantity=%d 应删除行项目", q)
		assert.Len(t, out, 1)
	}
}

func TestOperationSequence_NoDuplicateBookIDs(t *testing.T) {
	var items []LineItem
	var err error
	ids := []string{"A", "B", "A", "C", "B", "A"}
	for i, id := range ids {
		items, err = AddItem(items, Book{ID: id, ListPriceCents: price(int64(100 * (i + 1)))})
		require.NoError(t, err)
		assertUniqueBookIDs(t, items)
		items = UpdateQuantity(items, "C", i)
		assertUniqueBookIDs(t, items)
		if i%2 == 0 {
			items = RemoveItem(items, "B")
		}
		assertUniqueBookIDs(t, items)
	}
}

func TestParseShippingMethod(t *testing.T) {
	m, err := ParseShippingMethod("")
	require.NoError(t, err)
	assert.Equal(t, ShippingStandard, m)

	m, err = ParseShippingMethod("express")
	require.NoError(t, err)
	assert.Equal(t, ShippingExpress, m)

	_, err = ParseShippingMethod("drone")
	assert.Error(t, err)
}

func TestEncodeDecodeItems(t *testing.T) {
	items := []LineItem{{BookID: "A", Quantity: 2, UnitPriceCents: 1999}, {BookID: "B", Quantity: 1, UnitPriceCents: 500}}
	data, err := EncodeItems(items)
	require.NoError(t, err)

	got, err := DecodeItems(data)
	require.NoError(t, err)
	assert.Equal(t, items, got)

	data, err = EncodeItems(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestDecodeItems_Malformed(t *testing.T) {
	_, err := DecodeItems([]byte("{not json"))
	assert.Error(t, err)

	got, err := DecodeItems(nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeItems_DropsDirtyRows(t *testing.T) {
	got, err := DecodeItems([]byte(`[{"book_id":"A","quantity":1},{"book_id":"","quantity":3},{"book_id":"B","quantity":0},{"book_id":"A","quantity":2}]`))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 3, got[0].Quantity)
}
