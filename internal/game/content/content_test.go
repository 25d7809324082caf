package content_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/ability"
	"github.com/cory-johannsen/skirmish/internal/game/combat"
	"github.com/cory-johannsen/skirmish/internal/game/content"
	"github.com/cory-johannsen/skirmish/internal/game/damage"
	"github.com/cory-johannsen/skirmish/internal/game/dice"
	"github.com/cory-johannsen/skirmish/internal/game/rules"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
}

func contentDirs(t *testing.T) (string, string) {
	t.Helper()
	weapons, spells := t.TempDir(), t.TempDir()
	writeFile(t, filepath.Join(weapons, "longsword.yaml"), `
id: longsword
name: Longsword
kind: melee
category: martial
damage_dice: 1d8
damage_type: slashing
`)
	writeFile(t, filepath.Join(weapons, "longbow.yaml"), `
id: longbow
name: Longbow
kind: ranged
category: martial
damage_dice: 1d8
damage_type: piercing
normal_range: 150
long_range: 600
`)
	writeFile(t, filepath.Join(weapons, "whip.yml"), `
id: whip
name: Whip
kind: melee
category: martial
damage_dice: 1d4
damage_type: slashing
ability: dex
reach: 10
`)
	writeFile(t, filepath.Join(spells, "fire_bolt.yaml"), `
id: fire_bolt
name: Fire Bolt
level: 0
damage_dice: 1d10
damage_type: fire
range: 120
`)
	writeFile(t, filepath.Join(spells, "chromatic_orb.yaml"), `
id: chromatic_orb
name: Chromatic Orb
level: 1
damage_dice: 3d8
damage_type: acid
range: 90
upcast_dice: 1
`)
	return weapons, spells
}

func TestLoad(t *testing.T) {
	weapons, spells := contentDirs(t)
	reg, err := content.Load(weapons, spells)
	require.NoError(t, err)
	assert.Equal(t, []string{"longbow", "longsword", "whip"}, reg.WeaponIDs())
	assert.Equal(t, []string{"chromatic_orb", "fire_bolt"}, reg.SpellIDs())

	sword, err := reg.Weapon("longsword")
	require.NoError(t, err)
	assert.Equal(t, combat.MeleeWeapon{
		Name: "Longsword", Category: "martial", DamageType: damage.Slashing,
		Ability: ability.Strength, Damage: dice.MustParse("1d8"),
	}, sword)
	assert.Equal(t, "melee 5ft", sword.Profile().Range.String())

	bow, err := reg.Weapon("longbow")
	require.NoError(t, err)
	assert.Equal(t, ability.Dexterity, bow.Profile().Ability)
	assert.Equal(t, "ranged 150ft/600ft", bow.Profile().Range.String())

	whip, err := reg.Weapon("whip")
	require.NoError(t, err)
	assert.Equal(t, ability.Dexterity, whip.Profile().Ability)
	assert.Equal(t, "melee 10ft", whip.Profile().Range.String())

	orb, err := reg.Spell("chromatic_orb")
	require.NoError(t, err)
	assert.Equal(t, combat.Leveled(1), orb.Level)
	assert.Equal(t, 1, orb.UpcastDice)
	assert.Equal(t, 5, orb.AtLevel(3).Damage.Count)

	bolt, err := reg.Spell("fire_bolt")
	require.NoError(t, err)
	assert.Equal(t, combat.Cantrip{}, bolt.Level)

	_, err = reg.Weapon("trebuchet")
	assert.ErrorIs(t, err, rules.ErrLookupFailure)
	_, err = reg.Spell("wish")
	assert.ErrorIs(t, err, rules.ErrLookupFailure)
}

func TestLoad_EmptyDirsSkip(t *testing.T) {
	reg, err := content.Load("", "")
	require.NoError(t, err)
	assert.Empty(t, reg.WeaponIDs())
	assert.Empty(t, reg.SpellIDs())
}

func TestLoad_DuplicateID(t *testing.T) {
	weapons, _ := contentDirs(t)
	writeFile(t, filepath.Join(weapons, "zz_copy.yaml"), `
id: longsword
name: Another Longsword
kind: melee
damage_dice: 1d8
damage_type: slashing
`)
	_, err := content.Load(weapons, "")
	assert.ErrorIs(t, err, rules.ErrValidation)
}

func TestWeaponDef_Validate(t *testing.T) {
	cases := map[string]content.WeaponDef{
		"missing id":     {Name: "x", Kind: "melee", DamageDice: "1d4", DamageType: "slashing"},
		"bad kind":       {ID: "x", Name: "x", Kind: "thrown", DamageDice: "1d4", DamageType: "slashing"},
		"bad dice":       {ID: "x", Name: "x", Kind: "melee", DamageDice: "1d7", DamageType: "slashing"},
		"bad type":       {ID: "x", Name: "x", Kind: "melee", DamageDice: "1d4", DamageType: "sonic"},
		"bad ability":    {ID: "x", Name: "x", Kind: "melee", DamageDice: "1d4", DamageType: "slashing", Ability: "luck"},
		"no range":       {ID: "x", Name: "x", Kind: "ranged", DamageDice: "1d4", DamageType: "piercing"},
		"long too short": {ID: "x", Name: "x", Kind: "ranged", DamageDice: "1d4", DamageType: "piercing", NormalRange: 80, LongRange: 40},
	}
	for name, def := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, def.Validate(), rules.ErrValidation)
			_, err := def.Source()
			assert.ErrorIs(t, err, rules.ErrValidation)
		})
	}
}

func TestSpellDef_Validate(t *testing.T) {
	cases := map[string]content.SpellDef{
		"level too high":  {ID: "x", Name: "x", Level: 10, DamageDice: "1d4", DamageType: "fire"},
		"negative range":  {ID: "x", Name: "x", Level: 1, DamageDice: "1d4", DamageType: "fire", Range: -5},
		"cantrip upcast":  {ID: "x", Name: "x", Level: 0, DamageDice: "1d4", DamageType: "fire", UpcastDice: 1},
		"negative upcast": {ID: "x", Name: "x", Level: 2, DamageDice: "1d4", DamageType: "fire", UpcastDice: -1},
		"bad damage type": {ID: "x", Name: "x", Level: 2, DamageDice: "1d4", DamageType: "sonic"},
		"missing name":    {ID: "x", Level: 2, DamageDice: "1d4", DamageType: "fire"},
		"bad damage dice": {ID: "x", Name: "x", Level: 2, DamageDice: "many", DamageType: "fire"},
	}
	for name, def := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, def.Validate(), rules.ErrValidation)
			_, err := def.Spell()
			assert.ErrorIs(t, err, rules.ErrValidation)
		})
	}
}

func TestLoadWeapons_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "bad.yaml"), "id: bad\nname: Bad\nkind: melee\ndamage_dice: 1d4\ndamage_type: sonic\n")
	_, err := content.LoadWeapons(dir)
	assert.ErrorIs(t, err, rules.ErrValidation)

	_, err = content.LoadSpells(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
