// Package lexicon 通过远端拼写检查 API 判定单词合法性，并带本地缓存
package lexicon

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Oracle 是词典预言机
// 完整单词判定走远端 API，可延伸性判定用本地启发式规则
type Oracle struct {
	mu    sync.RWMutex
	cache map[string]bool

	client   *http.Client
	apiURL   string
	apiHost  string
	apiKey   string
	language string
}

func NewOracle(apiURL, apiKey, language string) *Oracle {
	if apiKey == "" {
		zap.L().Warn("词典 API key 未配置，所有单词将被判为不完整")
	}

	apiHost := ""
	if u, err := url.Parse(apiURL); err == nil {
		apiHost = u.Host
	}

	return &Oracle{
		cache: make(map[string]bool),
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		apiURL:   apiURL,
		apiHost:  apiHost,
		apiKey:   apiKey,
		language: language,
	}
}

// 拼写检查接口的两种已知响应格式：
// 新格式 { status: true, response: { result: true, errors: [] } }
// 旧格式 { errors: [] }
type spellingResult struct {
	Status   bool               `json:"status"`
	Errors   *[]json.RawMessage `json:"errors"`
	Response *struct {
		Errors *[]json.RawMessage `json:"errors"`
	} `json:"response"`
}

// IsCompleteWord 判定字母序列是否是一个完整的合法单词
// API 调用失败时判为不完整，且不缓存，后续调用可以重试
func (o *Oracle) IsCompleteWord(sequence string) bool {
	word := strings.ToLower(sequence)

	o.mu.RLock()
	cached, ok := o.cache[word]
	o.mu.RUnlock()

	if ok {
		return cached
	}

	valid, err := o.querySpelling(word)
	if err != nil {
		zap.L().Warn(
			"词典 API 查询失败",
			zap.String("word", word),
			zap.Error(err),
		)
		return false
	}

	o.mu.Lock()
	o.cache[word] = valid
	o.mu.Unlock()

	zap.L().Debug(
		"词典查询结果",
		zap.String("word", word),
		zap.Bool("valid", valid),
	)

	return valid
}

func (o *Oracle) querySpelling(word string) (bool, error) {
	form := url.Values{}
	form.Set("text", word)
	form.Set("language", o.language)

	req, err := http.NewRequest(
		http.MethodPost,
		o.apiURL,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return false, err
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("x-rapidapi-key", o.apiKey)
	req.Header.Set("x-rapidapi-host", o.apiHost)

	resp, err := o.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, err
	}

	var result spellingResult
	if err := json.Unmarshal(body, &result); err != nil {
		return false, err
	}

	// 没有拼写错误即视为合法单词
	if result.Response != nil && result.Response.Errors != nil {
		return len(*result.Response.Errors) == 0, nil
	}

	if result.Errors != nil {
		return len(*result.Errors) == 0, nil
	}

	if result.Status {
		// 响应里找不到错误列表但状态为真，按合法处理
		return true, nil
	}

	zap.L().Warn(
		"词典 API 响应格式无法识别",
		zap.String("word", word),
	)

	return false, nil
}

// 法语单词的常见前缀，命中则认为序列还有延伸空间
var commonFrenchPrefixes = []string{
	"ab", "ac", "ad", "af", "ag", "al", "am", "an", "ap", "ar",
	"as", "at", "au", "av", "be", "bi", "bl", "bo", "br", "ca",
	"ce", "ch", "ci", "cl", "co", "cr", "cu", "de", "dé", "di",
	"do", "du", "éc", "ef", "ég", "el", "em", "en", "ep", "ér",
	"es", "et", "eu", "ex", "fa", "fe", "fi", "fl", "fo", "fr",
	"ga", "ge", "gl", "gr", "gu", "ha", "hé", "hi", "ho", "hu",
	"hy", "id", "im", "in", "ir", "je", "jo", "ju", "la", "le",
	"li", "lo", "lu", "ma", "mé", "mi", "mo", "mu", "na", "né",
	"ni", "no", "nu", "ob", "oc", "om", "op", "or", "ou", "pa",
	"pé", "ph", "pi", "pl", "po", "pr", "ps", "qu", "ra", "ré",
	"ri", "ro", "ru", "sa", "sc", "se", "si", "so", "sp", "st",
	"su", "sy", "ta", "te", "th", "ti", "to", "tr", "tu", "ul",
	"un", "ur", "va", "vé", "vi", "vo",
}

// 法语单词里的常见字母组合
var commonLetterPatterns = []string{
	"eur", "ion", "ment", "able", "ique", "iste", "aire", "isme",
}

var endsWithVowel = regexp.MustCompile(`[aeiouy]$`)

// CanExtend 判定字母序列是否还可能延伸成合法单词
// 没有本地词典，采用一组宽松的启发式规则，宁可放行不可误杀
func (o *Oracle) CanExtend(sequence string) bool {
	word := strings.ToLower(sequence)
	length := utf8.RuneCountInString(word)

	// 本身已经是完整单词的序列当然可以延伸到这里
	if length >= 3 && o.IsCompleteWord(word) {
		return true
	}

	// 短序列几乎总能成为某个单词的前缀
	if length <= 6 {
		return true
	}

	for _, prefix := range commonFrenchPrefixes {
		if strings.HasPrefix(word, prefix) {
			return true
		}
	}

	for _, pattern := range commonLetterPatterns {
		if strings.Contains(word, pattern) {
			return true
		}
	}

	// 以元音结尾的序列通常可以继续
	if endsWithVowel.MatchString(word) {
		return true
	}

	zap.L().Debug(
		"启发式规则全部未命中，按长度兜底",
		zap.String("word", word),
	)

	return length < 10
}
