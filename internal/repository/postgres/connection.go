package postgres

import (
	"github.com/nileshk07/bloghub/internal/domain"
	"github.com/nileshk07/bloghub/internal/repository"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewConnection(databaseDSN string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(databaseDSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.Follow{},
		&domain.Blog{},
		&domain.BlogLike{},
		&domain.Comment{},
	)
}

func NewRepositories(db *gorm.DB) *repository.Repositories {
	return &repository.Repositories{
		User:   NewUserRepository(db),
		Follow: NewFollowRepository(db),
		Blog:   NewBlogRepository(db),
	}
}
