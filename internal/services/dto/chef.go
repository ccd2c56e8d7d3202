package dto

import "time"

type ChefResponse struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Bio             string    `json:"bio"`
	HourlyRate      float64   `json:"hourlyRate"`
	Location        string    `json:"location"`
	ExperienceYears int       `json:"experienceYears"`
	Languages       []string  `json:"languages"`
	Cuisines        []string  `json:"cuisines"`
	Verified        bool      `json:"verified"`
	Rating          float64   `json:"rating"`
	ReviewCount     int64     `json:"reviewCount"`
	Photos          []string  `json:"photos"`
	CreatedAt       time.Time `json:"createdAt"`
}

type ChefListResponse struct {
	Chefs    []*ChefResponse `json:"chefs"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"pageSize"`
}

type ChefListQuery struct {
	Location string `form:"location"`
	Cuisine  string `form:"cuisine"`
	Verified *bool  `form:"verified"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

type UpdateChefRequest struct {
	Name            *string  `json:"name" validate:"omitempty,min=2,max=100"`
	Bio             *string  `json:"bio" validate:"omitempty,max=2000"`
	Phone           *string  `json:"phone" validate:"omitempty,max=32"`
	HourlyRate      *float64 `json:"hourlyRate" validate:"omitempty,min=0"`
	Location        *string  `json:"location" validate:"omitempty,max=120"`
	ExperienceYears *int     `json:"experienceYears" validate:"omitempty,min=0,max=80"`
	Languages       []string `json:"languages"`
	Cuisines        []string `json:"cuisines"`
	Verified        *bool    `json:"verified"`
}
