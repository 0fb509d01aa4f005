package domain

// CREATE TABLE public.recommendations (
//     id                  BIGINT PRIMARY KEY,
//     parent_product_id   BIGINT NOT NULL,
//     related_product_id  BIGINT NOT NULL,
//     type                TEXT NOT NULL,
//     priority            INTEGER NOT NULL CHECK (priority >= 1)
// );

// Recommendation links a parent product to a related product. Lower priority
// values rank higher; the floor is 1.
type Recommendation struct {
	ID               uint64 `gorm:"primaryKey;column:id;autoIncrement:false" json:"id"`
	ParentProductID  int64  `gorm:"column:parent_product_id;not null" json:"parent_product_id"`
	RelatedProductID int64  `gorm:"column:related_product_id;not null" json:"related_product_id"`
	Type             string `gorm:"column:type;type:text;not null" json:"type"`
	Priority         int    `gorm:"column:priority;not null" json:"priority"`
}

func (Recommendation) TableName() string {
	return "recommendations"
}

// MinPriority is the absorbing floor of the click state machine.
const MinPriority = 1

// RecommendationFilter narrows a listing; nil fields are unconstrained.
type RecommendationFilter struct {
	Type            *string
	ParentProductID *int64
}

// ServiceInfo is the descriptor served at the API root.
type ServiceInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	URL     string `json:"url"`
}
