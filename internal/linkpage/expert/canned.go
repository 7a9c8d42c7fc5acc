package expert

import (
	"context"
	"math/rand/v2"
	"strings"
	"sync"
)

var cannedReplies = map[string][]string{
	"en": {
		"Thanks for reaching out! A fast, mobile-friendly website is usually the best first step. What does your business do?",
		"Great question. Start by defining who your ideal customer is; every ad and page should speak to them.",
		"Automating repetitive tasks like invoicing or booking can save hours each week. Which tasks take most of your time?",
		"I usually recommend a simple landing page plus one advertising channel before scaling further.",
		"Happy to help! For a detailed plan, message me on Telegram and we can go through your goals together.",
	},
	"ru": {
		"Спасибо за обращение! Быстрый сайт, удобный на мобильных, обычно лучший первый шаг. Чем занимается ваш бизнес?",
		"Хороший вопрос. Начните с описания идеального клиента: каждая реклама и страница должны говорить с ним.",
		"Автоматизация рутинных задач, например счетов или записи, экономит часы каждую неделю. Что отнимает у вас больше всего времени?",
		"Обычно я советую простую посадочную страницу и один рекламный канал, прежде чем масштабироваться.",
		"С радостью помогу! Для подробного плана напишите мне в Telegram, и мы вместе разберём ваши цели.",
	},
	"fi": {
		"Kiitos yhteydenotosta! Nopea ja mobiiliystävällinen verkkosivusto on yleensä paras ensimmäinen askel. Mitä yrityksesi tekee?",
		"Hyvä kysymys. Määrittele ensin ihanneasiakkaasi; jokaisen mainoksen ja sivun pitäisi puhua hänelle.",
		"Toistuvien tehtävien, kuten laskutuksen tai ajanvarauksen, automatisointi säästää tunteja viikossa. Mihin aikasi kuluu eniten?",
		"Suosittelen yleensä yksinkertaista laskeutumissivua ja yhtä mainoskanavaa ennen laajentamista.",
		"Autan mielelläni! Tarkempaa suunnitelmaa varten kirjoita minulle Telegramissa, niin käydään tavoitteesi läpi.",
	},
	"et": {
		"Aitäh, et võtsid ühendust! Kiire ja mobiilisõbralik veebileht on tavaliselt parim esimene samm. Millega su ettevõte tegeleb?",
		"Hea küsimus. Alusta oma ideaalse kliendi kirjeldamisest; iga reklaam ja leht peaks rääkima temaga.",
		"Korduvate ülesannete, näiteks arvete või broneeringute automatiseerimine säästab iga nädal tunde. Mis võtab sul kõige rohkem aega?",
		"Soovitan tavaliselt lihtsat maandumislehte ja ühte reklaamikanalit enne laienemist.",
		"Aitan hea meelega! Täpsema plaani jaoks kirjuta mulle Telegramis ja vaatame su eesmärgid koos üle.",
	},
}

var cannedTips = map[string][]string{
	"en": {
		"Put your main call to action above the fold. Visitors decide in seconds whether to stay.",
		"Track one key metric per campaign. Clear numbers make better ad decisions than gut feeling.",
		"Automate your follow-up emails. A timely reminder often turns interest into a sale.",
		"Compress your images. A faster page ranks better and keeps more visitors.",
		"Ask happy customers for a short review. Social proof sells better than any slogan.",
	},
	"ru": {
		"Разместите главный призыв к действию на первом экране. Посетители решают за секунды, остаться ли.",
		"Отслеживайте одну ключевую метрику на кампанию. Чёткие цифры лучше интуиции при решениях о рекламе.",
		"Автоматизируйте письма-напоминания. Своевременное напоминание часто превращает интерес в продажу.",
		"Сжимайте изображения. Быстрая страница лучше ранжируется и удерживает больше посетителей.",
		"Просите довольных клиентов оставить короткий отзыв. Социальное доказательство продаёт лучше любого слогана.",
	},
	"fi": {
		"Sijoita tärkein toimintakehotteesi heti näkyviin. Kävijät päättävät sekunneissa, jäävätkö he.",
		"Seuraa yhtä avainmittaria kampanjaa kohden. Selkeät luvut ohjaavat mainospäätöksiä paremmin kuin tunne.",
		"Automatisoi seurantaviestit. Oikea-aikainen muistutus muuttaa kiinnostuksen usein kaupaksi.",
		"Pakkaa kuvasi. Nopeampi sivu sijoittuu paremmin hakutuloksissa ja pitää kävijät.",
		"Pyydä tyytyväisiltä asiakkailta lyhyt arvio. Sosiaalinen todiste myy paremmin kuin mikään iskulause.",
	},
	"et": {
		"Pane peamine tegevusele kutsuv nupp kohe nähtavale. Külastajad otsustavad sekunditega, kas jääda.",
		"Jälgi iga kampaania puhul ühte põhinäitajat. Selged numbrid aitavad reklaamiotsuseid teha paremini kui kõhutunne.",
		"Automatiseeri järelkirjad. Õigeaegne meeldetuletus muudab huvi sageli müügiks.",
		"Tihenda oma pilte. Kiirem leht paistab otsingus paremini silma ja hoiab külastajaid.",
		"Palu rahulolevatelt klientidelt lühikest arvustust. Sotsiaalne tõestus müüb paremini kui ükski loosung.",
	},
}

// Canned answers from fixed per-language tables. Unknown languages use the
// English tables. Canned is safe for concurrent use.
type Canned struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCanned builds a Canned picker. A nil source uses the runtime's global
// generator.
func NewCanned(src rand.Source) *Canned {
	c := &Canned{}
	if src != nil {
		c.rnd = rand.New(src)
	}
	return c
}

// Reply returns a random chat reply for lang.
func (c *Canned) Reply(lang string) string {
	return c.pick(cannedReplies, lang)
}

// Tip returns a random tip for lang.
func (c *Canned) Tip(lang string) string {
	return c.pick(cannedTips, lang)
}

// Generate satisfies Generator so canned text can stand in for a provider.
func (c *Canned) Generate(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if req.Kind == KindTip {
		return c.Tip(req.Language), nil
	}
	return c.Reply(req.Language), nil
}

func (c *Canned) pick(tables map[string][]string, lang string) string {
	options, ok := tables[strings.ToLower(strings.TrimSpace(lang))]
	if !ok || len(options) == 0 {
		options = tables["en"]
	}
	return options[c.intN(len(options))]
}

func (c *Canned) intN(n int) int {
	if c == nil || c.rnd == nil {
		return rand.IntN(n)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rnd.IntN(n)
}

// CannedLanguages returns the languages with their own canned tables.
func CannedLanguages() []string {
	return []string{"en", "et", "fi", "ru"}
}
