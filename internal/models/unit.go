package models

// Unit описывает единицу размещения: комнату, дом, зону палаток или
// зону автодомов. Каталог статичен и загружается из конфигурации.
type Unit struct {
	ID         string `yaml:"id" json:"id"`
	Name       string `yaml:"name" json:"name"`
	Kind       string `yaml:"kind" json:"kind"`
	DisplayTag string `yaml:"display_tag" json:"display_tag"`
}

// IsShared возвращает true для зон с общей вместимостью, где несколько
// бронирований могут сосуществовать в один день.
func (u Unit) IsShared() bool {
	return u.Kind == UnitKindTent || u.Kind == UnitKindMotorhome
}
