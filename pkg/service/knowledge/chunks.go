package knowledge

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/model"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/domain/types"
)

// buildRecords flattens the source hierarchy into retrievable records.
// Schools are walked in canonical order and topics in sorted order so the
// record sequence (and every record ID) is identical across loads of the
// same source.
func buildRecords(src *source) []*model.Record {
	var records []*model.Record

	for _, school := range types.Schools() {
		section, ok := src.Mazhab[school.String()]
		if !ok {
			continue
		}
		records = append(records, buildSchoolRecords(school, &section)...)
	}

	for _, topic := range sortedKeys(src.Perbandingan) {
		records = append(records, buildComparisonRecord(topic, src.Perbandingan[topic]))
	}

	if src.AdabIkhtilaf != nil {
		records = append(records, buildAdabRecord(src.AdabIkhtilaf))
	}

	return records
}

func buildSchoolRecords(school types.School, section *schoolSource) []*model.Record {
	var records []*model.Record
	title := strings.ToUpper(school.Title())

	if imam := section.Imam; imam != nil {
		var sb strings.Builder
		fmt.Fprintf(&sb, "MAZHAB %s\n\n", title)
		fmt.Fprintf(&sb, "Imam: %s\n", imam.Nama)
		fmt.Fprintf(&sb, "Lahir: %s\n", imam.Lahir)
		fmt.Fprintf(&sb, "Wafat: %s\n", imam.Wafat)
		fmt.Fprintf(&sb, "Gelar: %s\n\n", imam.Gelar)
		fmt.Fprintf(&sb, "Biografi:\n%s\n\n", imam.Biografi)
		fmt.Fprintf(&sb, "Guru-guru: %s\n", strings.Join(imam.Guru, ", "))
		fmt.Fprintf(&sb, "Murid utama: %s", strings.Join(imam.MuridUtama, ", "))

		records = append(records, &model.Record{
			ID:       model.NewRecordID(school.String(), types.CategoryBiography.String()),
			School:   school,
			Category: types.CategoryBiography,
			Text:     strings.TrimSpace(sb.String()),
			Metadata: map[string]string{"imam": imam.Nama},
		})
	}

	if metod := section.Metodologi; metod != nil {
		var sb strings.Builder
		fmt.Fprintf(&sb, "METODOLOGI MAZHAB %s\n\n", title)
		fmt.Fprintf(&sb, "Sumber Hukum:\n- %s\n\n", strings.Join(metod.SumberHukum, "\n- "))
		fmt.Fprintf(&sb, "Ciri Khas:\n%s\n\n", metod.CiriKhas)
		fmt.Fprintf(&sb, "Prinsip Utama:\n- %s", strings.Join(metod.PrinsipUtama, "\n- "))

		records = append(records, &model.Record{
			ID:       model.NewRecordID(school.String(), types.CategoryMethodology.String()),
			School:   school,
			Category: types.CategoryMethodology,
			Text:     strings.TrimSpace(sb.String()),
		})
	}

	if len(section.KitabUtama) > 0 {
		lines := make([]string, len(section.KitabUtama))
		for i, kitab := range section.KitabUtama {
			lines[i] = fmt.Sprintf("- %s karya %s: %s", kitab.Judul, kitab.Penulis, kitab.Deskripsi)
		}

		records = append(records, &model.Record{
			ID:       model.NewRecordID(school.String(), types.CategoryReference.String()),
			School:   school,
			Category: types.CategoryReference,
			Text:     fmt.Sprintf("KITAB-KITAB UTAMA MAZHAB %s\n\n%s", title, strings.Join(lines, "\n")),
		})
	}

	for _, topic := range sortedKeys(section.HukumFiqih) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "HUKUM %s MAZHAB %s\n\n", strings.ToUpper(displayTopic(topic)), title)
		sb.WriteString(formatDetails(section.HukumFiqih[topic], 0))

		records = append(records, &model.Record{
			ID:       model.NewRecordID(school.String(), types.CategoryRitualLaw.String(), topic),
			School:   school,
			Category: types.CategoryRitualLaw,
			Topic:    topic,
			Text:     strings.TrimSpace(sb.String()),
			Metadata: map[string]string{"topic": topic},
		})
	}

	if len(section.Penyebaran) > 0 {
		text := fmt.Sprintf("PENYEBARAN MAZHAB %s\n\nMazhab %s tersebar luas di wilayah berikut:\n%s",
			title, school.Title(), strings.Join(section.Penyebaran, ", "))

		records = append(records, &model.Record{
			ID:       model.NewRecordID(school.String(), types.CategorySpread.String()),
			School:   school,
			Category: types.CategorySpread,
			Text:     text,
		})
	}

	return records
}

func buildComparisonRecord(topic string, opinions map[string]string) *model.Record {
	var sb strings.Builder
	fmt.Fprintf(&sb, "PERBANDINGAN ANTAR MAZHAB: %s\n\n", strings.ToUpper(displayTopic(topic)))
	for _, school := range types.Schools() {
		if opinion, ok := opinions[school.String()]; ok {
			fmt.Fprintf(&sb, "- Mazhab %s: %s\n", school.Title(), opinion)
		}
	}

	return &model.Record{
		ID:       model.NewRecordID(types.CategoryComparison.String(), topic),
		Category: types.CategoryComparison,
		Topic:    topic,
		Text:     strings.TrimSpace(sb.String()),
		Metadata: map[string]string{"topic": topic},
	}
}

func buildAdabRecord(adab *adabSource) *model.Record {
	var sb strings.Builder
	sb.WriteString("ADAB DALAM PERBEDAAN MAZHAB\n\n")
	sb.WriteString("Prinsip-prinsip dalam menyikapi perbedaan mazhab:\n")
	fmt.Fprintf(&sb, "- %s\n\n", strings.Join(adab.Prinsip, "\n- "))
	sb.WriteString("Kutipan dari para Imam:\n\n")
	sb.WriteString(strings.Join(adab.KutipanUlama, "\n\n"))

	return &model.Record{
		ID:       model.NewRecordID(types.CategoryEtiquette.String()),
		Category: types.CategoryEtiquette,
		Text:     strings.TrimSpace(sb.String()),
	}
}

// formatDetails renders free-form ruling JSON as an indented outline,
// preserving the source's nesting.
func formatDetails(raw json.RawMessage, indent int) string {
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return formatValue(value, indent)
}

func formatValue(value any, indent int) string {
	prefix := strings.Repeat("  ", indent)
	var sb strings.Builder

	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, key := range keys {
			switch child := v[key].(type) {
			case map[string]any, []any:
				fmt.Fprintf(&sb, "%s%s:\n", prefix, displayKey(key))
				sb.WriteString(formatValue(child, indent+1))
			default:
				fmt.Fprintf(&sb, "%s%s: %v\n", prefix, displayKey(key), child)
			}
		}
	case []any:
		for _, item := range v {
			switch child := item.(type) {
			case map[string]any:
				sb.WriteString(formatValue(child, indent))
			default:
				fmt.Fprintf(&sb, "%s- %v\n", prefix, child)
			}
		}
	default:
		fmt.Fprintf(&sb, "%s%v\n", prefix, v)
	}

	return sb.String()
}

func displayKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if part != "" {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

func displayTopic(topic string) string {
	return strings.ReplaceAll(topic, "_", " ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
