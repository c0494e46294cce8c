package repository

import (
	"errors"

	"lesson_media_service/internal/media/domain"

	"gorm.io/gorm"
)

// VideoRepo definition video record store
type VideoRepo interface {
	AutoMigrate() error
	Create(video *domain.VideoAsset) error
	GetByID(id string) (*domain.VideoAsset, error)
	// UpdateStatus flip the lifecycle status, optionally setting the output
	// location. Safe to repeat with the same terminal arguments, which the
	// worker relies on under queue redelivery.
	UpdateStatus(id string, status domain.VideoStatus, outputLocation string) (*domain.VideoAsset, error)
	FindByStatus(status domain.VideoStatus) ([]domain.VideoAsset, error)
}

type videoRepo struct {
	db *gorm.DB
}

// NewVideoRepo create VideoRepo
func NewVideoRepo(db *gorm.DB) VideoRepo {
	return &videoRepo{db: db}
}

func (r *videoRepo) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.VideoAsset{})
}

func (r *videoRepo) Create(video *domain.VideoAsset) error {
	return r.db.Create(video).Error
}

// GetByID get VideoAsset by id
func (r *videoRepo) GetByID(id string) (*domain.VideoAsset, error) {
	var v domain.VideoAsset
	if err := r.db.First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &v, nil
}

// UpdateStatus column-level update so repeated finalize calls converge on the
// same row state instead of racing whole-struct saves
func (r *videoRepo) UpdateStatus(id string, status domain.VideoStatus, outputLocation string) (*domain.VideoAsset, error) {
	updates := map[string]interface{}{"status": status}
	if outputLocation != "" {
		updates["output_location"] = outputLocation
	}

	tx := r.db.Model(&domain.VideoAsset{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	if tx.RowsAffected == 0 {
		return nil, domain.ErrRecordNotFound
	}

	return r.GetByID(id)
}

// FindByStatus find videos by status
func (r *videoRepo) FindByStatus(status domain.VideoStatus) ([]domain.VideoAsset, error) {
	var videos []domain.VideoAsset
	if err := r.db.Where("status = ?", status).Find(&videos).Error; err != nil {
		return nil, err
	}
	return videos, nil
}
