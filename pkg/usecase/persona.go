package usecase

// Persona holds the canned user-facing texts of the assistant. The
// defaults speak Indonesian like the knowledge base; deployments can
// override them via configuration.
type Persona struct {
	Greeting string
	Help     string
	Reset    string
	Fallback string
	Empty    string
}

func DefaultPersona() *Persona {
	return &Persona{
		Greeting: "Wa'alaikumussalam! 🙏\n\n" +
			"Saya *Kitab Mazhab AI*, asisten untuk belajar fiqih empat mazhab: " +
			"Hanafi, Maliki, Syafi'i, dan Hanbali.\n\n" +
			"Silakan tanyakan apa saja, misalnya:\n" +
			"- _Apa saja rukun wudhu menurut mazhab Syafi'i?_\n" +
			"- _Bandingkan posisi tangan saat shalat antar mazhab_\n" +
			"- _Siapa Imam Abu Hanifah?_\n\n" +
			"Ketik *menu* untuk panduan lengkap.",
		Help: "*Panduan Kitab Mazhab AI* 📚\n\n" +
			"Yang bisa saya bantu:\n" +
			"1. Hukum fiqih per mazhab (wudhu, shalat, dan lainnya)\n" +
			"2. Perbandingan pendapat antar empat mazhab\n" +
			"3. Biografi para imam mazhab\n" +
			"4. Kitab-kitab rujukan utama tiap mazhab\n" +
			"5. Metodologi dan sejarah penyebaran mazhab\n\n" +
			"Perintah khusus:\n" +
			"- *menu* / *help*: tampilkan panduan ini\n" +
			"- *reset*: hapus riwayat percakapan\n\n" +
			"Catatan: jawaban saya bersifat edukatif, bukan fatwa. " +
			"Untuk keputusan amal, rujuklah ulama setempat.",
		Reset: "Riwayat percakapan sudah dihapus. Kita mulai dari awal ya! 🙏",
		Fallback: "Mohon maaf, sedang ada kendala teknis dalam memproses pertanyaan Anda. " +
			"Silakan coba lagi beberapa saat lagi. 🙏",
		Empty: "Silakan tulis pertanyaan Anda tentang fiqih empat mazhab. " +
			"Ketik *menu* untuk melihat panduan.",
	}
}
