package mysql

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/xiebiao/storefront/internal/domain/book"
)

// newTestDB 内存SQLite,单连接保证所有查询落在同一个库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	return db
}

func seedBook(t *testing.T, db *gorm.DB, isbn string, price int64, stock int) *book.Book {
	t.Helper()
	b := book.NewBook(book.PublishParams{
		ISBN: isbn, Title: "Title " + isbn, Author: "Author", Publisher: "Press",
		Price: price, Stock: stock, CoverURL: "https://img/" + isbn, PublisherID: 1,
	})
	require.NoError(t, NewBookRepository(db).Create(context.Background(), b))
	return b
}
