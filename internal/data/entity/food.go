package entity

type FoodCategory string

const (
	CategoryPizza     FoodCategory = "pizza"
	CategorySandwich  FoodCategory = "sandwich"
	CategoryAppetizer FoodCategory = "appetizer"
	CategoryDrinks    FoodCategory = "drinks"
)

type Food struct {
	Base
	Name        string
	Category    FoodCategory
	Ingredients []string
	Price       float64
	IsFinished  bool // finished foods are hidden from default reads
}

func (c FoodCategory) Valid() bool {
	switch c {
	case CategoryPizza, CategorySandwich, CategoryAppetizer, CategoryDrinks:
		return true
	}
	return false
}
