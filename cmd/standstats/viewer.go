package main

import (
	"html/template"
	"net/http"
	"os"

	"github.com/wgdzlh/forestlib/log"

	"go.uber.org/zap"
)

// 流水线结果的轻量展示页：Leaflet地图 + 冠层高度色带与区间过滤。
// 统计已在流水线中完成，这里只做渲染
func serveDashboard(addr, geoJson, title string) error {
	tpl := template.Must(template.New("page").Parse(dashboardPage))
	http.HandleFunc("/stands.geojson", func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(geoJson)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		w.Write(data)
	})
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		tpl.Execute(w, title)
	})
	log.Info("dashboard serving", zap.String("addr", addr), zap.String("geojson", geoJson))
	return http.ListenAndServe(addr, nil)
}

const dashboardPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<title>{{.}} - canopy height</title>
<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"/>
<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
<style>
  body { margin:0; font-family:sans-serif; }
  #map { height:80vh; }
  #bar { padding:8px; }
  #list { padding:4px 8px; font-size:12px; color:#555; max-height:10vh; overflow:auto; }
</style>
</head>
<body>
<div id="bar">
  <b>{{.}}</b>
  canopy range: <span id="lo"></span>-<span id="hi"></span> m
  <input id="range" type="range" min="0" max="100" value="100" style="width:300px"/>
  <span id="count"></span>
</div>
<div id="map"></div>
<div id="list"></div>
<script>
var map = L.map('map');
L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png',
  {attribution:'&copy; OpenStreetMap'}).addTo(map);
fetch('/stands.geojson').then(function(r){return r.json();}).then(function(gj){
  var hs = gj.features.map(function(f){return f.properties.mean_canopy;})
    .filter(function(h){return h !== null;});
  var min = Math.min.apply(null, hs), max = Math.max.apply(null, hs);
  document.getElementById('lo').textContent = min.toFixed(1);
  var layer;
  function ramp(h) {
    if (h === null) return '#999';
    var t = max > min ? (h - min) / (max - min) : 0;
    if (t < 0) t = 0;
    return 'rgb(' + Math.round(255*t) + ',' + Math.round(255*(1-t)) + ',50)';
  }
  function redraw(cut) {
    if (layer) map.removeLayer(layer);
    var n = 0, ids = [];
    layer = L.geoJSON(gj, {
      filter: function(f) {
        var h = f.properties.mean_canopy;
        if (h !== null && h > cut) return false;
        n++;
        ids.push(f.properties.StandID);
        return true;
      },
      style: function(f) {
        return {color:'#333', weight:1, fillColor:ramp(f.properties.mean_canopy), fillOpacity:0.7};
      },
      onEachFeature: function(f, l) {
        var p = f.properties;
        l.bindPopup('Stand ' + p.StandID +
          '<br/>mean elevation: ' + (p.mean_elev === null ? 'n/a' : p.mean_elev.toFixed(1) + ' m') +
          '<br/>mean canopy: ' + (p.mean_canopy === null ? 'n/a' : p.mean_canopy.toFixed(1) + ' m'));
      }
    }).addTo(map);
    document.getElementById('count').textContent = n + ' stands';
    document.getElementById('hi').textContent = cut.toFixed(1);
    document.getElementById('list').textContent = 'stands in range: ' + ids.join(', ');
  }
  var slider = document.getElementById('range');
  slider.oninput = function() {
    redraw(min + (max - min) * slider.value / 100);
  };
  redraw(max);
  map.fitBounds(layer.getBounds());
});
</script>
</body>
</html>
`
