package seeds

import (
	"log"
	"time"

	"github.com/lib/pq"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/database"
	"github.com/mohidqx/cyberops-capture-the-flag/internal/models"
	"github.com/mohidqx/cyberops-capture-the-flag/pkg/utils"
)

// SeedChallenges inserts a starter challenge set across categories.
// Existing titles are skipped so reseeding is safe.
func SeedChallenges(author models.Player) {
	log.Println("Seeding challenges...")

	challenges := []models.Challenge{
		{
			Title:       "Cookie Monster",
			Description: "The admin panel trusts a cookie a little too much. Find your way in and grab the flag.",
			Category:    models.CategoryWeb,
			Difficulty:  models.DifficultyEasy,
			Points:      100,
			Flag:        "CTF{c00k13s_4r3_n0t_4uth}",
			Hints:       pq.StringArray{"Look at what the session cookie actually contains.", "Base64 is not encryption."},
			HintCosts:   pq.Int64Array{10, 25},
		},
		{
			Title:       "Rotten Cipher",
			Description: "We intercepted a message: 'PGS{ebg13_vf_abg_frpher}'. Decrypt it.",
			Category:    models.CategoryCrypto,
			Difficulty:  models.DifficultyEasy,
			Points:      100,
			Flag:        "CTF{rot13_is_not_secure}",
			Hints:       pq.StringArray{"The cipher rotates."},
			HintCosts:   pq.Int64Array{10},
		},
		{
			Title:       "Packed Lunch",
			Description: "This binary hides its strings behind a packer. Unwrap it and read the flag.",
			Category:    models.CategoryReverse,
			Difficulty:  models.DifficultyMedium,
			Points:      250,
			Flag:        "CTF{upx_d3t3ct3d_4nd_d3f34t3d}",
			Hints:       pq.StringArray{"Check the section names.", "The packer is a common open source one."},
			HintCosts:   pq.Int64Array{25, 50},
			Files:       pq.StringArray{"packed_lunch.bin"},
		},
		{
			Title:       "Memory Lane",
			Description: "A memory dump from a compromised workstation. What was the attacker typing?",
			Category:    models.CategoryForensics,
			Difficulty:  models.DifficultyMedium,
			Points:      300,
			Flag:        "CTF{v0lat1l1ty_r3v34ls_4ll}",
			Hints:       pq.StringArray{"Process listing first, then console history."},
			HintCosts:   pq.Int64Array{50},
			Files:       pq.StringArray{"memdump.raw.gz"},
		},
		{
			Title:       "Stack Overflow-n",
			Description: "A classic service with a classic bug. The flag is in /flag.txt on the remote host.",
			Category:    models.CategoryPwn,
			Difficulty:  models.DifficultyHard,
			Points:      500,
			Flag:        "CTF{r3t2l1bc_l1k3_its_1999}",
			Hints:       pq.StringArray{"No canary, but NX is on.", "The libc version is in the handout."},
			HintCosts:   pq.Int64Array{50, 100},
			Files:       pq.StringArray{"overflown", "libc-2.31.so"},
		},
		{
			Title:       "Log Sifter",
			Description: "Ten million lines of web server logs, one exfiltration. Script your way to the flag.",
			Category:    models.CategoryScripting,
			Difficulty:  models.DifficultyMedium,
			Points:      200,
			Flag:        "CTF{gr3p_15_y0ur_fr13nd}",
			Hints:       pq.StringArray{"The exfil is chunked across response sizes."},
			HintCosts:   pq.Int64Array{25},
			Files:       pq.StringArray{"access.log.gz"},
		},
	}

	for _, ch := range challenges {
		var existing models.Challenge
		if err := database.DB.Where("title = ?", ch.Title).First(&existing).Error; err == nil {
			continue
		}

		ch.ID = utils.GenerateID()
		ch.CreatedAt = time.Now()
		ch.UpdatedAt = time.Now()
		ch.IsActive = true
		ch.AuthorID = &author.ID

		if err := database.DB.Create(&ch).Error; err != nil {
			log.Printf("   Failed to create challenge %s: %v", ch.Title, err)
		} else {
			log.Printf("   Challenge added: %s (%s, %d pts)", ch.Title, ch.Category, ch.Points)
		}
	}
}

// SeedCompetitionSettings creates the default settings row if missing:
// practice mode, decay off.
func SeedCompetitionSettings() {
	var existing models.CompetitionSettings
	if err := database.DB.Where("name = ?", "default").First(&existing).Error; err == nil {
		return
	}

	settings := models.CompetitionSettings{
		ID:           utils.GenerateID(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Name:         "default",
		IsActive:     false,
		DecayEnabled: false,
		DecayMinimum: 50,
	}
	if err := database.DB.Create(&settings).Error; err != nil {
		log.Printf("   Failed to create competition settings: %v", err)
	} else {
		log.Println("   Default competition settings created (practice mode)")
	}
}
