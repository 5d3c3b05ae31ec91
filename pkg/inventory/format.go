package inventory

import "fmt"

// FormatRecord renders one record as the multi-line summary sent to the
// requester. Pure: no I/O, no mutation. Replies keep the warehouse crew's
// working language.
//
// A part in stock gets the full summary; a part with zero quantity omits
// shelf, location and quantity. An empty serial number renders as a dash
// placeholder rather than a blank.
func FormatRecord(rec Record) string {
	passport := "нет"
	if rec.HasPassport {
		passport = "есть"
	}
	checked := "не проверена"
	if rec.IsChecked {
		checked = "проверена"
	}
	serial := rec.SerialNumber
	if serial == "" {
		serial = "—"
	}
	category := categoryLabel(rec.Category)

	if rec.Quantity > 0 {
		return fmt.Sprintf(
			"✅ %s\n📦 Полка: %s, ячейка: %s\n🔢 Количество: %d\n📄 Паспорт: %s\n🆕 Категория: %s\n🔑 Серийный номер: %s\n✔️ Проверка: %s",
			rec.PartNumber, rec.Shelf, rec.Location, rec.Quantity,
			passport, category, serial, checked,
		)
	}
	return fmt.Sprintf(
		"❌ %s — нет в наличии\n📄 Паспорт: %s\n🆕 Категория: %s\n🔑 Серийный номер: %s\n✔️ Проверка: %s",
		rec.PartNumber, passport, category, serial, checked,
	)
}

// categoryLabel maps the derived enum to its human label. An unrecognised
// raw value already became CategoryUnknown during coercion and renders as a
// generic label instead of failing.
func categoryLabel(c Category) string {
	switch c {
	case CategoryNew:
		return "новая"
	case CategoryOld:
		return "старая"
	default:
		return "не указана"
	}
}
