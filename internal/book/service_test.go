package book

import (
	"context"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestService_Add(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	input := Book{
		Title:    "The Left Hand of Darkness",
		Author:   "Ursula K. Le Guin",
		ISBN:     "978-0441478125",
		Price:    9.99,
		Quantity: 12,
	}

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().GetByISBN(gomock.Any(), input.ISBN).Return(nil, nil)
		mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b *Book) error {
				b.ID = "book-1"
				return nil
			})

		created, err := service.Add(context.Background(), input)

		assert.NoError(t, err)
		assert.Equal(t, "book-1", created.ID)
		assert.Equal(t, input.ISBN, created.ISBN)
	})

	t.Run("duplicate isbn", func(t *testing.T) {
		existing := input
		existing.ID = "book-1"
		// No Create expectation: the store must stay untouched.
		mockRepo.EXPECT().GetByISBN(gomock.Any(), input.ISBN).Return(&existing, nil)

		_, err := service.Add(context.Background(), input)

		assert.ErrorIs(t, err, ErrDuplicateISBN)
	})
}

func TestService_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(Book{}, ErrNotFound)

		_, err := service.GetByID(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_GetByISBN(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	t.Run("absent is not an error", func(t *testing.T) {
		mockRepo.EXPECT().GetByISBN(gomock.Any(), "978-0000000000").Return(nil, nil)

		b, err := service.GetByISBN(context.Background(), "978-0000000000")

		assert.NoError(t, err)
		assert.Nil(t, b)
	})
}

func TestService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	stored := Book{
		ID:       "book-1",
		Title:    "Old Title",
		Author:   "Old Author",
		ISBN:     "978-0441478125",
		Price:    9.99,
		Quantity: 12,
	}

	t.Run("replaces fields, keeps isbn", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "book-1").Return(stored, nil)

		var saved Book
		mockRepo.EXPECT().Update(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, b *Book) error {
				saved = *b
				return nil
			})

		updated, err := service.Update(context.Background(), "book-1", Book{
			Title:       "New Title",
			Author:      "New Author",
			ISBN:        stored.ISBN,
			Price:       14.99,
			Quantity:    5,
			Description: "reissued",
		})

		assert.NoError(t, err)
		assert.Equal(t, "New Title", saved.Title)
		assert.Equal(t, "New Author", saved.Author)
		assert.Equal(t, 14.99, saved.Price)
		assert.Equal(t, 5, saved.Quantity)
		assert.Equal(t, "reissued", saved.Description)
		assert.Equal(t, stored.ISBN, saved.ISBN)
		assert.Equal(t, saved, updated)
	})

	t.Run("isbn change rejected before save", func(t *testing.T) {
		// No Update expectation: nothing may be persisted.
		mockRepo.EXPECT().GetByID(gomock.Any(), "book-1").Return(stored, nil)

		_, err := service.Update(context.Background(), "book-1", Book{
			Title: "New Title",
			ISBN:  "978-1111111111",
		})

		assert.ErrorIs(t, err, ErrISBNImmutable)
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(Book{}, ErrNotFound)

		_, err := service.Update(context.Background(), "missing", stored)

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	t.Run("success", func(t *testing.T) {
		mockRepo.EXPECT().ExistsByID(gomock.Any(), "book-1").Return(true, nil)
		mockRepo.EXPECT().Delete(gomock.Any(), "book-1").Return(nil)

		assert.NoError(t, service.Delete(context.Background(), "book-1"))
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo.EXPECT().ExistsByID(gomock.Any(), "missing").Return(false, nil)

		err := service.Delete(context.Background(), "missing")

		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Lists_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockRepo := NewMockRepository(ctrl)
	service := NewService(mockRepo)

	books := []Book{{ID: "book-1", Title: "A"}, {ID: "book-2", Title: "B"}}

	mockRepo.EXPECT().ListAll(gomock.Any()).Return(books, nil).Times(2)

	first, err := service.ListAll(context.Background())
	assert.NoError(t, err)
	second, err := service.ListAll(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
}
