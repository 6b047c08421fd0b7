package model

// Company is a tile manufacturer or brand that products belong to.
type Company struct {
	BaseModel
	Name string `gorm:"column:company;type:varchar(120);uniqueIndex;not null" json:"company" validate:"required,max=120"`
}
