package category

import "time"

type Category struct {
	ID               int64     `gorm:"primaryKey"`
	UserID           int64     `gorm:"column:user_id;not null;uniqueIndex:idx_categories_user_name_type"`
	Name             string    `gorm:"column:name;not null;uniqueIndex:idx_categories_user_name_type"`
	CategoryType     string    `gorm:"column:category_type;not null;uniqueIndex:idx_categories_user_name_type"`
	ParentCategoryID *int64    `gorm:"column:parent_category_id"`
	IsActive         bool      `gorm:"column:is_active;default:true"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string {
	return "categories"
}
