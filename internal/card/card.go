package card

// Type identifies a card. Cards carry no per-instance state; two cards of
// the same type are interchangeable.
type Type string

const (
	ExplodingKitten Type = "exploding_kitten"
	Defuse          Type = "defuse"
	Attack          Type = "attack"
	Skip            Type = "skip"
	SeeFuture       Type = "see_future"
	AlterFuture     Type = "alter_future"
	Shuffle         Type = "shuffle"
	DrawBottom      Type = "draw_bottom"
	Favor           Type = "favor"
	FeralCat        Type = "feral_cat"
	Tacocat         Type = "tacocat"
	Cattermelon     Type = "cattermelon"
	HairyPotatoCat  Type = "hairy_potato_cat"
	BeardCat        Type = "beard_cat"
	RainbowCat      Type = "rainbow_cat"
)

// AttackTurns is the number of forced turns an attack grants the next player.
const AttackTurns = 2

// FutureWindow is how many top cards see-the-future and alter-the-future
// operate on.
const FutureWindow = 3

// Types lists every card type in catalog order.
func Types() []Type {
	return []Type{
		ExplodingKitten, Defuse, Attack, Skip, SeeFuture, AlterFuture,
		Shuffle, DrawBottom, Favor,
		FeralCat, Tacocat, Cattermelon, HairyPotatoCat, BeardCat, RainbowCat,
	}
}

// Valid reports whether t is a known card type.
func (t Type) Valid() bool {
	switch t {
	case ExplodingKitten, Defuse, Attack, Skip, SeeFuture, AlterFuture,
		Shuffle, DrawBottom, Favor,
		FeralCat, Tacocat, Cattermelon, HairyPotatoCat, BeardCat, RainbowCat:
		return true
	}
	return false
}

// String returns the human-readable card name.
func (t Type) String() string {
	switch t {
	case ExplodingKitten:
		return "Exploding Kitten"
	case Defuse:
		return "Defuse"
	case Attack:
		return "Attack"
	case Skip:
		return "Skip"
	case SeeFuture:
		return "See the future"
	case AlterFuture:
		return "Alter the future"
	case Shuffle:
		return "Shuffle"
	case DrawBottom:
		return "Draw from the bottom"
	case Favor:
		return "Favor"
	case FeralCat:
		return "Feral Cat"
	case Tacocat:
		return "Tacocat"
	case Cattermelon:
		return "Cattermelon"
	case HairyPotatoCat:
		return "Hairy Potato Cat"
	case BeardCat:
		return "Beard Cat"
	case RainbowCat:
		return "Rainbow-Ralphing Cat"
	default:
		return "Unknown"
	}
}

// IsCat reports whether t is a cat card, feral included.
func (t Type) IsCat() bool {
	switch t {
	case FeralCat, Tacocat, Cattermelon, HairyPotatoCat, BeardCat, RainbowCat:
		return true
	}
	return false
}

// IsWild reports whether t substitutes for any specific cat variant when
// forming a combo.
func (t Type) IsWild() bool {
	return t == FeralCat
}

// TargetsOther reports whether playing t requires choosing another player.
func (t Type) TargetsOther() bool {
	return t == Favor || t.IsCat()
}

// Matches reports whether t can be counted toward a combo of the specific
// variant want. Wild cards match everything except other wilds.
func (t Type) Matches(want Type) bool {
	return t == want || t.IsWild()
}
