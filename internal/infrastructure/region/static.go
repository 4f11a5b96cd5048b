package region

import "strconv"

// NorthRhineWestphalia nombre oficial del estado federado elegible por defecto.
const NorthRhineWestphalia = "Nordrhein-Westfalen"

// Verdict respuesta de la tabla estática.
type Verdict int

const (
	VerdictUnknown Verdict = iota // la tabla no puede decidir
	VerdictInside                 // seguro en NRW
	VerdictOutside                // seguro fuera de NRW
)

type postalRange struct{ from, to int }

func (r postalRange) contains(n int) bool { return n >= r.from && n <= r.to }

// nrwLeadRegions regiones postales (dos primeros dígitos) con algún municipio de
// NRW. Fuera de ellas el código es seguro de otro estado.
var nrwLeadRegions = map[int]bool{
	32: true, 33: true, 34: true, 37: true,
	40: true, 41: true, 42: true,
	44: true, 45: true, 46: true, 47: true, 48: true, 49: true,
	50: true, 51: true, 52: true, 53: true,
	57: true, 58: true, 59: true,
}

// nrwRanges códigos que pertenecen con seguridad a NRW. Las zonas fronterizas con
// Baja Sajonia, Hesse y Renania-Palatinado se listan código a código.
var nrwRanges = []postalRange{
	{32000, 33999},
	{34414, 34414}, // Warburg
	{34431, 34431}, // Marsberg
	{34434, 34434}, // Borgentreich
	{34439, 34439}, // Willebadessen
	{37671, 37671}, // Höxter
	{37688, 37688}, // Beverungen
	{37696, 37696}, // Marienmünster
	{40000, 42999},
	{44000, 47999},
	{48000, 48432},
	{48477, 48477}, // Hörstel
	{48485, 48485}, // Neuenkirchen
	{48493, 48493}, // Wettringen
	{48496, 48496}, // Hopsten
	{48560, 48999},
	{49477, 49479}, // Ibbenbüren
	{49492, 49492}, // Westerkappeln
	{49497, 49497}, // Mettingen
	{49504, 49504}, // Lotte
	{49509, 49509}, // Recke
	{49525, 49525}, // Lengerich
	{49536, 49536}, // Lienen
	{49545, 49545}, // Tecklenburg
	{49549, 49549}, // Ladbergen
	{50000, 51597},
	{51599, 53399},
	{53600, 53999},
	{57000, 57499},
	{58000, 59968},
	{59970, 59999},
}

// outsideRanges códigos de regiones fronterizas que pertenecen con seguridad a otro estado.
var outsideRanges = []postalRange{
	{48455, 48455}, // Bad Bentheim
	{48465, 48465}, // Schüttorf
	{48480, 48480}, // Spelle
	{48488, 48488}, // Emsbüren
	{48499, 48499}, // Salzbergen
	{48527, 48531}, // Nordhorn
	{49000, 49476}, // Osnabrück, Vechta, Diepholz
	{49560, 49999}, // Emsland, Cloppenburg
	{51598, 51598}, // Friesenhagen
	{53400, 53599}, // Ahrweiler, Linz
	{57500, 57999}, // Altenkirchen, Westerwald
}

// validPostalCode cinco dígitos, como los códigos postales alemanes.
func validPostalCode(pc string) (int, bool) {
	if len(pc) != 5 {
		return 0, false
	}
	for i := 0; i < len(pc); i++ {
		if pc[i] < '0' || pc[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(pc)
	return n, err == nil
}

// StaticVerdict clasifica el código con la tabla local. Un código mal formado o de
// una zona fronteriza no listada es VerdictUnknown.
func StaticVerdict(postalCode string) Verdict {
	n, valid := validPostalCode(postalCode)
	if !valid {
		return VerdictUnknown
	}
	for _, r := range nrwRanges {
		if r.contains(n) {
			return VerdictInside
		}
	}
	for _, r := range outsideRanges {
		if r.contains(n) {
			return VerdictOutside
		}
	}
	if nrwLeadRegions[n/1000] {
		return VerdictUnknown
	}
	return VerdictOutside
}
