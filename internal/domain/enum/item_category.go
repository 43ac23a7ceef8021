package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// ItemCategory classifies a deposited article by the work it needs.
type ItemCategory int

const (
	ItemCategoryWashing     ItemCategory = 0
	ItemCategoryIroning     ItemCategory = 1
	ItemCategoryDryCleaning ItemCategory = 2
	ItemCategoryRepair      ItemCategory = 3
	ItemCategoryOther       ItemCategory = 4
)

var itemCategoryNames = []string{"WASHING", "IRONING", "DRY_CLEANING", "REPAIR", "OTHER"}

var itemCategoryLabels = []string{"Lavage", "Repassage", "Nettoyage à sec", "Retouche", "Autre"}

func (c ItemCategory) String() string {
	return nameOf(itemCategoryNames, int(c))
}

// Label is the French name printed on receipts.
func (c ItemCategory) Label() string {
	return nameOf(itemCategoryLabels, int(c))
}

func (c ItemCategory) IsValid() bool {
	return c >= ItemCategoryWashing && c <= ItemCategoryOther
}

func (c ItemCategory) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ItemCategory) UnmarshalJSON(data []byte) error {
	i, err := unmarshalEnum(data, itemCategoryNames, "item category")
	if err != nil {
		return err
	}
	*c = ItemCategory(i)
	return nil
}

func (c ItemCategory) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *ItemCategory) Scan(value interface{}) error {
	i, err := scanInt(value)
	if err != nil {
		return err
	}
	*c = ItemCategory(i)
	return nil
}

func ParseItemCategory(str string) (ItemCategory, error) {
	i, ok := parseName(itemCategoryNames, str)
	if !ok {
		return ItemCategoryOther, fmt.Errorf("invalid item category %q", str)
	}
	return ItemCategory(i), nil
}
