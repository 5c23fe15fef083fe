package dao

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mahalakshmi2126/Newshub-Server/internal/model"
	"github.com/mahalakshmi2126/Newshub-Server/pkg/database"
)

type commentDAO struct {
	db *database.PostgreSQL
}

// NewCommentDAO creates the comment DAO.
func NewCommentDAO(db *database.PostgreSQL) CommentDAO {
	return &commentDAO{
		db: db,
	}
}

// CreateComment inserts the comment and keeps the article's node count
// and the author's comment statistic in step, all inside one
// transaction.
func (d *commentDAO) CreateComment(ctx context.Context, comment *model.Comment) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var article model.Article
		if err := tx.Select("id", "status").Where("id = ?", comment.ArticleID).First(&article).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NotFound("article %d not found", comment.ArticleID)
			}
			return err
		}

		if comment.ParentID > 0 {
			var parent model.Comment
			if err := tx.Where("id = ? AND article_id = ?", comment.ParentID, comment.ArticleID).First(&parent).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return model.NotFound("parent comment %d not found", comment.ParentID)
				}
				return err
			}
			// Anchor replies to the top-level ancestor.
			if parent.RootID > 0 {
				comment.RootID = parent.RootID
			} else {
				comment.RootID = parent.ID
			}
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		if err := tx.Model(&model.User{}).
			Where("id = ?", comment.AuthorID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + ?", 1)).Error; err != nil {
			return err
		}

		return incrementCommentCountTx(tx, comment.ArticleID, 1)
	})
}

// GetComment loads one comment.
func (d *commentDAO) GetComment(ctx context.Context, commentID int64) (*model.Comment, error) {
	var comment model.Comment
	err := d.db.WithContext(ctx).Where("id = ?", commentID).First(&comment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.NotFound("comment %d not found", commentID)
		}
		return nil, err
	}
	return &comment, nil
}

// ListByArticle loads all comment rows of an article ordered by
// creation time, ready for tree assembly.
func (d *commentDAO) ListByArticle(ctx context.Context, articleID int64) ([]*model.Comment, error) {
	var comments []*model.Comment
	err := d.db.WithContext(ctx).
		Where("article_id = ?", articleID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// DeleteComment removes a comment with its entire reply subtree and
// decrements the article counter by the number of removed nodes.
func (d *commentDAO) DeleteComment(ctx context.Context, commentID int64) (int64, error) {
	var removed int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Where("id = ?", commentID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NotFound("comment %d not found", commentID)
			}
			return err
		}

		// One scan over the thread is enough to find the subtree: a
		// top-level comment owns root_id = its id, a reply shares its
		// ancestor's root_id.
		rootID := comment.RootID
		if rootID == 0 {
			rootID = comment.ID
		}
		var thread []*model.Comment
		if err := tx.Where("article_id = ? AND (root_id = ? OR id = ?)", comment.ArticleID, rootID, rootID).
			Find(&thread).Error; err != nil {
			return err
		}

		ids := model.SubtreeIDs(thread, commentID)
		removed = int64(len(ids))

		if err := tx.Where("comment_id IN ?", ids).Delete(&model.CommentLike{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", ids).Delete(&model.Comment{}).Error; err != nil {
			return err
		}

		return incrementCommentCountTx(tx, comment.ArticleID, -removed)
	})
	if err != nil {
		return 0, err
	}
	return removed, nil
}

// ToggleLike flips the user's like row and the denormalized count in
// one transaction. The unique index on (comment_id, user_id) makes a
// concurrent double-like lose cleanly.
func (d *commentDAO) ToggleLike(ctx context.Context, commentID, userID int64) (bool, int64, error) {
	var liked bool
	var likeCount int64

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment model.Comment
		if err := tx.Where("id = ?", commentID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return model.NotFound("comment %d not found", commentID)
			}
			return err
		}

		res := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).Delete(&model.CommentLike{})
		if res.Error != nil {
			return res.Error
		}

		if res.RowsAffected > 0 {
			liked = false
			if err := tx.Model(&model.Comment{}).
				Where("id = ?", commentID).
				UpdateColumn("like_count", gorm.Expr("GREATEST(like_count - ?, 0)", 1)).Error; err != nil {
				return err
			}
		} else {
			liked = true
			like := &model.CommentLike{CommentID: commentID, UserID: userID}
			if err := tx.Create(like).Error; err != nil {
				// A concurrent like by the same user loses on the
				// unique index.
				return duplicateKeyToConflict(err, "comment %d already liked", commentID)
			}
			if err := tx.Model(&model.Comment{}).
				Where("id = ?", commentID).
				UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error; err != nil {
				return err
			}
		}

		return tx.Model(&model.Comment{}).
			Select("like_count").
			Where("id = ?", commentID).
			Scan(&likeCount).Error
	})
	if err != nil {
		return false, 0, err
	}
	return liked, likeCount, nil
}

// GetLikedSet reports which of the given comments the user has liked.
func (d *commentDAO) GetLikedSet(ctx context.Context, userID int64, commentIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(commentIDs))
	if len(commentIDs) == 0 {
		return result, nil
	}

	var likes []*model.CommentLike
	err := d.db.WithContext(ctx).
		Where("user_id = ? AND comment_id IN ?", userID, commentIDs).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}

	for _, like := range likes {
		result[like.CommentID] = true
	}
	return result, nil
}

func incrementCommentCountTx(tx *gorm.DB, articleID int64, delta int64) error {
	if delta >= 0 {
		return tx.Model(&model.Article{}).
			Where("id = ?", articleID).
			UpdateColumn("comment_count", gorm.Expr("comment_count + ?", delta)).Error
	}
	return tx.Model(&model.Article{}).
		Where("id = ?", articleID).
		UpdateColumn("comment_count", gorm.Expr("GREATEST(comment_count - ?, 0)", -delta)).Error
}
