package store

import "moda/internal/models"

// SeedProducts returns the catalog used when no persisted state exists.
func SeedProducts() []models.Product {
	return []models.Product{
		{
			ID:       "1",
			Name:     "DOUBLE POCKET FAUX SUEDE TOTE BAG",
			Price:    89900,
			Image:    "/brown-suede-tote-bag-with-double-pockets.jpg",
			Category: "액세서리",
			Colors:   []string{"브라운", "블랙"},
			Stock:    50,
		},
		{
			ID:       "2",
			Name:     "FAUX SUEDE SHOULDER BAG",
			Price:    79900,
			Image:    "/olive-green-suede-shoulder-bag.jpg",
			Category: "액세서리",
			Colors:   []string{"올리브", "베이지"},
			Stock:    30,
		},
		{
			ID:       "3",
			Name:     "RECTANGULAR FAUX SUEDE TOTE BAG",
			Price:    79900,
			Image:    "/khaki-suede-rectangular-tote-bag.jpg",
			Category: "액세서리",
			Colors:   []string{"카키", "블랙"},
			Stock:    45,
		},
		{
			ID:       "4",
			Name:     "TWO WAY DENIM FUNNEL NECK BELTED PLEATED OVERSIZED JACKET",
			Price:    79900,
			Image:    "/olive-green-oversized-denim-jacket-with-belt.jpg",
			Category: "상의",
			Colors:   []string{"올리브", "블루"},
			Sizes:    []string{"S", "M", "L", "XL"},
			Stock:    25,
		},
		{
			ID:       "5",
			Name:     "WOOL-LOOK FUNNEL NECK LONG SLEEVE OVERSIZED JACKET",
			Price:    99900,
			Image:    "/black-wool-oversized-jacket.jpg",
			Category: "상의",
			Colors:   []string{"블랙", "그레이", "베이지", "네이비"},
			Sizes:    []string{"S", "M", "L", "XL"},
			Stock:    40,
		},
		{
			ID:       "6",
			Name:     "RIBBED KNIT CROP TOP",
			Price:    39900,
			Image:    "/white-ribbed-knit-crop-top.jpg",
			Category: "상의",
			Colors:   []string{"화이트", "블랙", "베이지"},
			Sizes:    []string{"S", "M", "L"},
			Stock:    60,
		},
		{
			ID:       "7",
			Name:     "HIGH WAIST WIDE LEG JEANS",
			Price:    69900,
			Image:    "/blue-high-waist-wide-leg-jeans.jpg",
			Category: "하의",
			Colors:   []string{"라이트블루", "다크블루"},
			Sizes:    []string{"XS", "S", "M", "L", "XL"},
			Stock:    35,
		},
		{
			ID:       "8",
			Name:     "PLEATED MINI SKIRT",
			Price:    49900,
			Image:    "/black-pleated-mini-skirt.jpg",
			Category: "하의",
			Colors:   []string{"블랙", "그레이", "네이비"},
			Sizes:    []string{"XS", "S", "M", "L"},
			Stock:    55,
		},
	}
}
