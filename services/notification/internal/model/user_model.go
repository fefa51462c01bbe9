package model

// UserModel is the read-only slice of users used to name actors.
type UserModel struct {
	ID    string  `gorm:"column:id;type:uuid;primaryKey"`
	Name  *string `gorm:"column:name;type:varchar(255)"`
	Email string  `gorm:"column:email;not null"`
}

func (UserModel) TableName() string {
	return "users"
}
