package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tasklist/tasklist/internal/model"
)

// runStoreContract exercises the Gateway contract shared by every Store.
// newStore must return an empty store.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("InsertAssignsIDAndFindByIDRoundTrips", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		user := &model.User{Name: "alice"}
		if err := store.Users().Insert(ctx, user); err != nil {
			t.Fatalf("insert user: %v", err)
		}
		if user.ID <= 0 {
			t.Fatalf("expected positive generated ID, got %d", user.ID)
		}

		other := &model.User{Name: "bob"}
		if err := store.Users().Insert(ctx, other); err != nil {
			t.Fatalf("insert second user: %v", err)
		}
		if other.ID == user.ID {
			t.Fatalf("expected distinct IDs, both got %d", user.ID)
		}

		got, err := store.Users().FindByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("find user: %v", err)
		}
		if *got != *user {
			t.Errorf("FindByID = %+v, want %+v", *got, *user)
		}

		list := &model.List{UserID: user.ID, Name: "groceries"}
		if err := store.Lists().Insert(ctx, list); err != nil {
			t.Fatalf("insert list: %v", err)
		}

		due := time.Date(2031, 5, 6, 7, 8, 9, 0, time.UTC)
		task := &model.Task{ListID: list.ID, Text: "Buy milk", Description: "2%", DueDate: due}
		if err := store.Tasks().Insert(ctx, task); err != nil {
			t.Fatalf("insert task: %v", err)
		}

		gotTask, err := store.Tasks().FindByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("find task: %v", err)
		}
		if gotTask.Text != task.Text || gotTask.Description != task.Description ||
			!gotTask.DueDate.Equal(due) || gotTask.Completed != task.Completed || gotTask.ListID != list.ID {
			t.Errorf("FindByID = %+v, want %+v", *gotTask, *task)
		}
	})

	t.Run("SubSecondDueDateRoundTrips", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		user := mustInsertUser(t, store, "alice")
		list := mustInsertList(t, store, user.ID, "groceries")

		task := &model.Task{
			ListID:  list.ID,
			Text:    "Buy milk",
			DueDate: time.Date(2030, 1, 1, 0, 0, 0, 123_456_789, time.UTC),
		}
		if err := store.Tasks().Insert(ctx, task); err != nil {
			t.Fatalf("insert task: %v", err)
		}
		if want := time.Date(2030, 1, 1, 0, 0, 0, 123_457_000, time.UTC); !task.DueDate.Equal(want) {
			t.Errorf("inserted due date = %v, want %v", task.DueDate, want)
		}

		got, err := store.Tasks().FindByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("find task: %v", err)
		}
		if !got.DueDate.Equal(task.DueDate) {
			t.Errorf("FindByID due date = %v, Insert reported %v", got.DueDate, task.DueDate)
		}

		task.DueDate = time.Date(2031, 2, 3, 4, 5, 6, 987_654_321, time.UTC)
		if err := store.Tasks().Update(ctx, task); err != nil {
			t.Fatalf("update task: %v", err)
		}
		got, err = store.Tasks().FindByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("find task: %v", err)
		}
		if !got.DueDate.Equal(task.DueDate) || got.DueDate.Nanosecond() != 987_654_000 {
			t.Errorf("after update FindByID = %v, Update reported %v", got.DueDate, task.DueDate)
		}
	})

	t.Run("FindByIDNotFound", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Users().FindByID(context.Background(), 99999)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("InsertWithMissingParent", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		err := store.Lists().Insert(ctx, &model.List{UserID: 42, Name: "orphan"})
		var fkErr *ForeignKeyError
		if !errors.As(err, &fkErr) {
			t.Fatalf("expected ForeignKeyError, got %v", err)
		}
		if fkErr.Field != "userId" {
			t.Errorf("Field = %q, want userId", fkErr.Field)
		}
		if !errors.Is(err, ErrForeignKey) {
			t.Error("expected errors.Is(err, ErrForeignKey)")
		}

		err = store.Tasks().Insert(ctx, &model.Task{ListID: 42, Text: "orphan"})
		if !errors.As(err, &fkErr) || fkErr.Field != "listId" {
			t.Fatalf("expected listId ForeignKeyError, got %v", err)
		}
	})

	t.Run("FindByForeignKey", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		owner := mustInsertUser(t, store, "owner")
		stranger := mustInsertUser(t, store, "stranger")
		first := mustInsertList(t, store, owner.ID, "first")
		second := mustInsertList(t, store, owner.ID, "second")
		mustInsertList(t, store, stranger.ID, "theirs")

		lists, err := store.Lists().FindBy(ctx, "userId", owner.ID)
		if err != nil {
			t.Fatalf("find lists: %v", err)
		}
		if len(lists) != 2 || lists[0].ID != first.ID || lists[1].ID != second.ID {
			t.Errorf("unexpected lists: %+v", lists)
		}

		empty, err := store.Tasks().FindBy(ctx, "listId", first.ID)
		if err != nil {
			t.Fatalf("find tasks: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("expected no tasks, got %d", len(empty))
		}

		if _, err := store.Lists().FindBy(ctx, "name", 1); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("expected ErrUnknownKey, got %v", err)
		}
		if _, err := store.Users().FindBy(ctx, "userId", 1); !errors.Is(err, ErrUnknownKey) {
			t.Errorf("expected ErrUnknownKey for users, got %v", err)
		}
	})

	t.Run("UpdateOverwrites", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		user := mustInsertUser(t, store, "before")
		user.Name = "after"
		if err := store.Users().Update(ctx, user); err != nil {
			t.Fatalf("update user: %v", err)
		}

		got, err := store.Users().FindByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("find user: %v", err)
		}
		if got.Name != "after" {
			t.Errorf("Name = %q, want after", got.Name)
		}

		missing := &model.User{ID: user.ID + 1000, Name: "ghost"}
		if err := store.Users().Update(ctx, missing); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}

		list := mustInsertList(t, store, user.ID, "home")
		list.UserID = user.ID + 1000
		if err := store.Lists().Update(ctx, list); !errors.Is(err, ErrForeignKey) {
			t.Errorf("expected ErrForeignKey, got %v", err)
		}
	})

	t.Run("DeleteByIDCountsRows", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		user := mustInsertUser(t, store, "temp")
		list := mustInsertList(t, store, user.ID, "temp")
		task := &model.Task{ListID: list.ID, Text: "temp", DueDate: model.DefaultDueDate}
		if err := store.Tasks().Insert(ctx, task); err != nil {
			t.Fatalf("insert task: %v", err)
		}

		n, err := store.Tasks().DeleteByID(ctx, task.ID)
		if err != nil || n != 1 {
			t.Fatalf("first delete = (%d, %v), want (1, nil)", n, err)
		}

		n, err = store.Tasks().DeleteByID(ctx, task.ID)
		if err != nil || n != 0 {
			t.Fatalf("second delete = (%d, %v), want (0, nil)", n, err)
		}
	})

	t.Run("DeleteUserCascades", func(t *testing.T) {
		ctx := context.Background()
		store := newStore(t)

		user := mustInsertUser(t, store, "parent")
		keeper := mustInsertUser(t, store, "keeper")
		doomed := mustInsertList(t, store, user.ID, "doomed")
		kept := mustInsertList(t, store, keeper.ID, "kept")

		for _, listID := range []int64{doomed.ID, doomed.ID, kept.ID} {
			task := &model.Task{ListID: listID, Text: "item", DueDate: model.DefaultDueDate}
			if err := store.Tasks().Insert(ctx, task); err != nil {
				t.Fatalf("insert task: %v", err)
			}
		}

		if n, err := store.Users().DeleteByID(ctx, user.ID); err != nil || n != 1 {
			t.Fatalf("delete user = (%d, %v), want (1, nil)", n, err)
		}

		lists, err := store.Lists().FindBy(ctx, "userId", user.ID)
		if err != nil {
			t.Fatalf("find lists: %v", err)
		}
		if len(lists) != 0 {
			t.Errorf("expected lists to cascade, found %d", len(lists))
		}

		tasks, err := store.Tasks().FindBy(ctx, "listId", doomed.ID)
		if err != nil {
			t.Fatalf("find tasks: %v", err)
		}
		if len(tasks) != 0 {
			t.Errorf("expected tasks to cascade, found %d", len(tasks))
		}

		remaining, err := store.Tasks().FindAll(ctx)
		if err != nil {
			t.Fatalf("find all tasks: %v", err)
		}
		if len(remaining) != 1 || remaining[0].ListID != kept.ID {
			t.Errorf("unrelated tasks were affected: %+v", remaining)
		}
	})
}

func mustInsertUser(t *testing.T, store Store, name string) *model.User {
	t.Helper()
	u := &model.User{Name: name}
	if err := store.Users().Insert(context.Background(), u); err != nil {
		t.Fatalf("insert user %q: %v", name, err)
	}
	return u
}

func mustInsertList(t *testing.T, store Store, userID int64, name string) *model.List {
	t.Helper()
	l := &model.List{UserID: userID, Name: name}
	if err := store.Lists().Insert(context.Background(), l); err != nil {
		t.Fatalf("insert list %q: %v", name, err)
	}
	return l
}
