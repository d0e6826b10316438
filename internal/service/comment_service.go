package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mtlprog/teamtasks/internal/domain"
)

const commentExcerptLength = 120

// CommentService manages task comments.
type CommentService struct {
	comments CommentStore
	tasks    TaskStore
	users    UserStore
	activity ActivityRecorder
	watchers WatcherNotifier
}

// NewCommentService creates a new CommentService.
func NewCommentService(
	comments CommentStore,
	tasks TaskStore,
	users UserStore,
	activity ActivityRecorder,
	watchers WatcherNotifier,
) *CommentService {
	return &CommentService{
		comments: comments,
		tasks:    tasks,
		users:    users,
		activity: activity,
		watchers: watchers,
	}
}

// CreateComment adds a comment, records a comment_added activity and notifies
// every watcher of the task except the author.
func (s *CommentService) CreateComment(ctx context.Context, taskID, authorID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyComment
	}
	if authorID == "" {
		return nil, domain.ErrActorRequired
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	author, err := s.users.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	comment, err := s.comments.Create(ctx, &domain.Comment{
		TaskID:   taskID,
		AuthorID: authorID,
		Content:  content,
	})
	if err != nil {
		return nil, err
	}
	summary := author.Summary()
	comment.Author = &summary

	slog.Info("comment added", "task_id", taskID, "comment_id", comment.ID, "author_id", authorID)

	effects := newSideEffects("task_id", taskID, "comment_id", comment.ID)
	effects.run("activity", func() error {
		_, err := s.activity.Record(ctx, domain.NewActivity{
			Type:        domain.ActivityCommentAdded,
			Description: fmt.Sprintf("%s commented on %q.", summary.FullName(), task.Title),
			ActorID:     &authorID,
			TeamID:      &task.TeamID,
			TaskID:      &task.ID,
		})
		return err
	})
	effects.run("watcher notification", func() error {
		_, err := s.watchers.NotifyWatchers(ctx, taskID, domain.WatcherEventComment, authorID, map[string]any{
			"taskId":    task.ID,
			"taskTitle": task.Title,
			"commentId": comment.ID,
			"authorId":  authorID,
			"excerpt":   comment.Excerpt(commentExcerptLength),
		})
		return err
	})

	return comment, effects.Err()
}

// ListByTask returns the task's comments, oldest first.
func (s *CommentService) ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}

// ListAll returns every comment, newest first.
func (s *CommentService) ListAll(ctx context.Context) ([]*domain.Comment, error) {
	return s.comments.ListAll(ctx)
}

// UpdateComment replaces a comment's content.
func (s *CommentService) UpdateComment(ctx context.Context, commentID, content string) (*domain.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.ErrEmptyComment
	}
	if err := s.comments.UpdateContent(ctx, commentID, content); err != nil {
		return nil, err
	}
	return s.comments.GetByID(ctx, commentID)
}

// DeleteComment removes a comment.
func (s *CommentService) DeleteComment(ctx context.Context, commentID string) error {
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	slog.Info("comment deleted", "comment_id", commentID)
	return nil
}
