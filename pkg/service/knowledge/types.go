package knowledge

import "encoding/json"

// source is the on-disk knowledge base document. The hierarchy is
// school -> section -> content; free-form ruling details are kept as raw
// JSON and flattened at chunk-build time.
type source struct {
	Mazhab       map[string]schoolSource        `json:"mazhab"`
	Perbandingan map[string]map[string]string   `json:"perbandingan_praktis"`
	AdabIkhtilaf *adabSource                    `json:"adab_ikhtilaf"`
}

type schoolSource struct {
	Imam       *imamSource                `json:"imam"`
	Metodologi *methodologySource         `json:"metodologi"`
	KitabUtama []kitabSource              `json:"kitab_utama"`
	HukumFiqih map[string]json.RawMessage `json:"hukum_fiqih"`
	Penyebaran []string                   `json:"penyebaran"`
}

type imamSource struct {
	Nama       string   `json:"nama"`
	Lahir      string   `json:"lahir"`
	Wafat      string   `json:"wafat"`
	Gelar      string   `json:"gelar"`
	Biografi   string   `json:"biografi"`
	Guru       []string `json:"guru"`
	MuridUtama []string `json:"murid_utama"`
}

type methodologySource struct {
	SumberHukum  []string `json:"sumber_hukum"`
	CiriKhas     string   `json:"ciri_khas"`
	PrinsipUtama []string `json:"prinsip_utama"`
}

type kitabSource struct {
	Judul     string `json:"judul"`
	Penulis   string `json:"penulis"`
	Deskripsi string `json:"deskripsi"`
}

type adabSource struct {
	Prinsip      []string `json:"prinsip"`
	KutipanUlama []string `json:"kutipan_ulama"`
}
